package orchestrator

import (
	"context"

	"github.com/compozy/autotag/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockVersionSource struct{ mock.Mock }

func (m *mockVersionSource) CurrentCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockVersionSource) LatestTag(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockVersionSource) PublishTag(ctx context.Context, release *domain.Release) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

type mockForgeRepository struct{ mock.Mock }

func (m *mockForgeRepository) SearchChangeRequests(ctx context.Context, commit string) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, commit)
	found, _ := args.Get(0).([]domain.ChangeRequest)
	return found, args.Error(1)
}
func (m *mockForgeRepository) SearchCommitMessages(ctx context.Context, commit string) ([]string, error) {
	args := m.Called(ctx, commit)
	messages, _ := args.Get(0).([]string)
	return messages, args.Error(1)
}
func (m *mockForgeRepository) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}
func (m *mockForgeRepository) BranchHead(ctx context.Context, branch string) (string, error) {
	args := m.Called(ctx, branch)
	return args.String(0), args.Error(1)
}
func (m *mockForgeRepository) CreateTagAndRelease(ctx context.Context, tag, message, commit string) error {
	args := m.Called(ctx, tag, message, commit)
	return args.Error(0)
}

type mockStateRepository struct{ mock.Mock }

func (m *mockStateRepository) Save(ctx context.Context, state *domain.RunState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}
func (m *mockStateRepository) Load(ctx context.Context, sessionID string) (*domain.RunState, error) {
	args := m.Called(ctx, sessionID)
	state, _ := args.Get(0).(*domain.RunState)
	return state, args.Error(1)
}
func (m *mockStateRepository) LoadLatest(ctx context.Context) (*domain.RunState, error) {
	args := m.Called(ctx)
	state, _ := args.Get(0).(*domain.RunState)
	return state, args.Error(1)
}
func (m *mockStateRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
func (m *mockStateRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
