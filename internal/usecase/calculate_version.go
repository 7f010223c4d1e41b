package usecase

import (
	"context"

	"github.com/compozy/autotag/internal/domain"
	"go.uber.org/zap"
)

// CalculateVersionUseCase applies the increment policy.
type CalculateVersionUseCase struct {
	Logger *zap.Logger
}

// Execute returns the next version and the bump that produced it.
func (uc *CalculateVersionUseCase) Execute(
	_ context.Context,
	previous *domain.Version,
	match domain.ChangeRequestMatch,
) (*domain.Version, domain.Bump) {
	next, bump, defaulted := domain.NextVersion(previous, match.Labels())
	logger := loggerOrNop(uc.Logger)
	if previous == nil {
		logger.Info("repository has no version tag, starting at initial version",
			zap.String("version", next.String()))
		return next, bump
	}
	if defaulted {
		logger.Warn("no version label found, defaulting to patch",
			zap.String("previous", previous.String()),
			zap.Strings("labels", match.Labels()),
		)
	}
	return next, bump
}
