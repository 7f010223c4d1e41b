package usecase

import (
	"context"
	"testing"

	"github.com/compozy/autotag/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestCalculateVersionUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	withLabels := func(labels ...string) domain.ChangeRequestMatch {
		return domain.ClassifyChangeRequests([]domain.ChangeRequest{{Number: 1, Labels: labels}})
	}
	t.Run("Should bump minor and keep patch", func(t *testing.T) {
		uc := &CalculateVersionUseCase{}
		next, bump := uc.Execute(ctx, domain.NewVersion(1, 2, 3), withLabels("minor", "patch"))
		assert.Equal(t, "v1.3.3", next.String())
		assert.Equal(t, domain.BumpMinor, bump)
	})
	t.Run("Should start at v0.0.0 regardless of labels", func(t *testing.T) {
		uc := &CalculateVersionUseCase{}
		next, bump := uc.Execute(ctx, nil, withLabels("major"))
		assert.Equal(t, domain.InitialVersion, next.String())
		assert.Equal(t, domain.BumpNone, bump)
	})
	t.Run("Should warn when defaulting to patch", func(t *testing.T) {
		logger, logs := newObservedLogger()
		uc := &CalculateVersionUseCase{Logger: logger}
		next, bump := uc.Execute(ctx, domain.NewVersion(0, 9, 0), domain.ClassifyChangeRequests(nil))
		assert.Equal(t, "v0.9.1", next.String())
		assert.Equal(t, domain.BumpPatch, bump)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})
	t.Run("Should not warn for explicit patch label", func(t *testing.T) {
		logger, logs := newObservedLogger()
		uc := &CalculateVersionUseCase{Logger: logger}
		uc.Execute(ctx, domain.NewVersion(1, 4, 9), withLabels("patch"))
		assert.Equal(t, 0, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})
}
