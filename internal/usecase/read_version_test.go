package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/compozy/autotag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVersionUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	t.Run("Should parse the latest tag", func(t *testing.T) {
		src := new(mockVersionSource)
		src.On("LatestTag", ctx).Return("release-v2.13.7-hotfix", nil)
		uc := &ReadVersionUseCase{Source: src, Mode: domain.ModeLocal}
		version, tag, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, "release-v2.13.7-hotfix", tag)
		assert.Equal(t, "v2.13.7", version.String())
	})
	t.Run("Should fail without tags in local mode", func(t *testing.T) {
		src := new(mockVersionSource)
		src.On("LatestTag", ctx).Return("", nil)
		uc := &ReadVersionUseCase{Source: src, Mode: domain.ModeLocal}
		_, _, err := uc.Execute(ctx)
		assert.True(t, errors.Is(err, domain.ErrNoVersionTag))
	})
	t.Run("Should report unversioned repository in remote mode", func(t *testing.T) {
		src := new(mockVersionSource)
		src.On("LatestTag", ctx).Return("", nil)
		uc := &ReadVersionUseCase{Source: src, Mode: domain.ModeRemote}
		version, tag, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.Nil(t, version)
		assert.Equal(t, "", tag)
	})
	t.Run("Should fail on tag without three numbers", func(t *testing.T) {
		src := new(mockVersionSource)
		src.On("LatestTag", ctx).Return("v1.2", nil)
		uc := &ReadVersionUseCase{Source: src, Mode: domain.ModeRemote}
		_, _, err := uc.Execute(ctx)
		assert.True(t, errors.Is(err, domain.ErrInvalidVersionTag))
	})
	t.Run("Should wrap source errors", func(t *testing.T) {
		src := new(mockVersionSource)
		src.On("LatestTag", ctx).Return("", errors.New("boom"))
		uc := &ReadVersionUseCase{Source: src, Mode: domain.ModeLocal}
		_, _, err := uc.Execute(ctx)
		assert.ErrorContains(t, err, "failed to get latest tag")
	})
}
