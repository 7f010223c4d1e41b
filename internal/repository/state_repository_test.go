package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/compozy/autotag/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStateRepository(t *testing.T) (*JSONStateRepository, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "state")
	return NewJSONStateRepository(afero.NewOsFs(), dir, nil), dir
}

func sampleRunState(sessionID string) *domain.RunState {
	state := domain.NewRunState(sessionID, domain.ModeRemote, "octo/widgets")
	state.AddStep(domain.StepTypeResolveCommit)
	state.MarkStepStarted(domain.StepTypeResolveCommit)
	state.MarkStepCompleted(domain.StepTypeResolveCommit, map[string]any{"commit": "deadbeef"})
	state.Commit = "deadbeef"
	return state
}

func TestJSONStateRepository_SaveAndLoad(t *testing.T) {
	t.Run("Should round trip a run journal", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		ctx := context.Background()
		state := sampleRunState("session-1")
		require.NoError(t, repo.Save(ctx, state))
		loaded, err := repo.Load(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "session-1", loaded.SessionID)
		assert.Equal(t, domain.ModeRemote, loaded.Mode)
		assert.Equal(t, "deadbeef", loaded.Commit)
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, domain.StepStatusCompleted, loaded.Steps[0].Status)
		assert.Equal(t, "deadbeef", loaded.Steps[0].Result["commit"])
	})
	t.Run("Should reject state without session id", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		err := repo.Save(context.Background(), &domain.RunState{})
		assert.Error(t, err)
	})
	t.Run("Should report missing session", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		_, err := repo.Load(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrRunNotFound))
	})
	t.Run("Should detect corrupted journal", func(t *testing.T) {
		repo, dir := newTestStateRepository(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, sampleRunState("session-2")))
		file := filepath.Join(dir, "run-session-2.json")
		data, err := afero.ReadFile(afero.NewOsFs(), file)
		require.NoError(t, err)
		tampered := []byte(strings.Replace(string(data), "deadbeef", "cafebabe", 1))
		require.NoError(t, afero.WriteFile(afero.NewOsFs(), file, tampered, StateFilePermissions))
		_, err = repo.Load(ctx, "session-2")
		assert.ErrorContains(t, err, "checksum mismatch")
	})
}

func TestJSONStateRepository_LoadLatest(t *testing.T) {
	t.Run("Should return the last saved run", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, sampleRunState("first")))
		require.NoError(t, repo.Save(ctx, sampleRunState("second")))
		latest, err := repo.LoadLatest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", latest.SessionID)
	})
	t.Run("Should fail when nothing was recorded", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		_, err := repo.LoadLatest(context.Background())
		assert.True(t, errors.Is(err, ErrRunNotFound))
	})
}

func TestJSONStateRepository_DeleteAndExists(t *testing.T) {
	t.Run("Should delete an existing journal", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		ctx := context.Background()
		require.NoError(t, repo.Save(ctx, sampleRunState("gone")))
		exists, err := repo.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.True(t, exists)
		require.NoError(t, repo.Delete(ctx, "gone"))
		exists, err = repo.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists)
	})
	t.Run("Should ignore deleting unknown session", func(t *testing.T) {
		repo, _ := newTestStateRepository(t)
		assert.NoError(t, repo.Delete(context.Background(), "unknown"))
	})
}

func TestSessionFromFilename(t *testing.T) {
	t.Run("Should extract the session id", func(t *testing.T) {
		assert.Equal(t, "abc", sessionFromFilename("/tmp/state/run-abc.json"))
	})
	t.Run("Should reject foreign files", func(t *testing.T) {
		assert.Equal(t, "", sessionFromFilename("latest.txt"))
		assert.Equal(t, "", sessionFromFilename("run-.txt"))
	})
}
