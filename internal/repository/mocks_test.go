package repository

import (
	"context"

	"github.com/compozy/autotag/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) HeadCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) LatestTag(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}
func (m *mockGitRepository) CreateTag(ctx context.Context, tag, msg string) error {
	args := m.Called(ctx, tag, msg)
	return args.Error(0)
}
func (m *mockGitRepository) PushTags(ctx context.Context) error {
	args := m.Called(ctx)
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
