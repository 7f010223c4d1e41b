package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
	"go.uber.org/zap"
)

// ResolveChangeRequestUseCase finds the change request a commit belongs to.
type ResolveChangeRequestUseCase struct {
	Forge  repository.ForgeRepository
	Logger *zap.Logger
}

// Execute searches the forge for the commit. No match is a warning, several
// matches are an error.
func (uc *ResolveChangeRequestUseCase) Execute(ctx context.Context, commit string) (domain.ChangeRequestMatch, error) {
	found, err := uc.Forge.SearchChangeRequests(ctx, commit)
	if err != nil {
		return domain.ChangeRequestMatch{}, fmt.Errorf("failed to search change requests: %w", err)
	}
	match := domain.ClassifyChangeRequests(found)
	switch match.Kind {
	case domain.MatchNone:
		loggerOrNop(uc.Logger).Warn("no change request found for commit", zap.String("commit", commit))
	case domain.MatchMany:
		return match, fmt.Errorf("%w: %d matches for %s", domain.ErrAmbiguousChangeRequest, match.Count, commit)
	case domain.MatchOne:
		loggerOrNop(uc.Logger).Info("change request found",
			zap.Int("number", match.ChangeRequest.Number),
			zap.Strings("labels", match.ChangeRequest.Labels),
		)
	}
	return match, nil
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
