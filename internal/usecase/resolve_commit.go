package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/repository"
)

// ResolveCommitUseCase finds the commit the new tag will point at.
type ResolveCommitUseCase struct {
	Source repository.VersionSource
}

// Execute runs the use case.
func (uc *ResolveCommitUseCase) Execute(ctx context.Context) (string, error) {
	commit, err := uc.Source.CurrentCommit(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve current commit: %w", err)
	}
	if commit == "" {
		return "", fmt.Errorf("failed to resolve current commit: empty hash")
	}
	return commit, nil
}
