package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
)

// DeriveTitleUseCase picks the title used in the tag message.
type DeriveTitleUseCase struct {
	Forge repository.ForgeRepository
}

// Execute returns the change request title, or the raw message of the commit
// when no change request matched. The commit search must yield exactly one commit.
func (uc *DeriveTitleUseCase) Execute(ctx context.Context, commit string, match domain.ChangeRequestMatch) (string, error) {
	if match.Kind == domain.MatchOne {
		return match.ChangeRequest.Title, nil
	}
	messages, err := uc.Forge.SearchCommitMessages(ctx, commit)
	if err != nil {
		return "", fmt.Errorf("failed to search commits: %w", err)
	}
	if len(messages) != 1 {
		return "", fmt.Errorf("%w: found %d for %s", domain.ErrAmbiguousCommit, len(messages), commit)
	}
	return messages[0], nil
}
