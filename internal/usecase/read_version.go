package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
)

// ReadVersionUseCase reads and parses the latest version tag.
type ReadVersionUseCase struct {
	Source repository.VersionSource
	Mode   domain.Mode
}

// Execute returns the current version and the tag it was parsed from. A nil
// version means the repository is unversioned, which only modes seeding an
// initial version accept.
func (uc *ReadVersionUseCase) Execute(ctx context.Context) (*domain.Version, string, error) {
	tag, err := uc.Source.LatestTag(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get latest tag: %w", err)
	}
	if tag == "" {
		if uc.Mode.SeedsInitialVersion() {
			return nil, "", nil
		}
		return nil, "", domain.ErrNoVersionTag
	}
	version, err := domain.ParseTag(tag)
	if err != nil {
		return nil, tag, err
	}
	return version, tag, nil
}
