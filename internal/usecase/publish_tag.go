package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
)

// PublishTagUseCase creates and publishes the release tag.
type PublishTagUseCase struct {
	Source repository.VersionSource
}

// Execute publishes the tag. There is no undo.
func (uc *PublishTagUseCase) Execute(ctx context.Context, release *domain.Release) error {
	if release == nil || release.TagName == "" {
		return fmt.Errorf("release has no tag name")
	}
	if err := uc.Source.PublishTag(ctx, release); err != nil {
		return fmt.Errorf("failed to publish tag %s: %w", release.TagName, err)
	}
	return nil
}
