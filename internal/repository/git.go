package repository

import "context"

// GitRepository defines the interface for local Git operations.
type GitRepository interface {
	HeadCommit(ctx context.Context) (string, error)
	LatestTag(ctx context.Context) (string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	CreateTag(ctx context.Context, tag, msg string) error
	PushTags(ctx context.Context) error
}
