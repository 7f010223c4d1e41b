package repository

import (
	"context"

	"github.com/compozy/autotag/internal/domain"
)

// ForgeRepository defines the interface for code-forge API operations.
type ForgeRepository interface {
	// SearchChangeRequests returns the pull/merge requests associated with a commit.
	SearchChangeRequests(ctx context.Context, commit string) ([]domain.ChangeRequest, error)
	// SearchCommitMessages returns the messages of the commits matching a hash.
	SearchCommitMessages(ctx context.Context, commit string) ([]string, error)
	// ListTags returns tag names in the order the forge lists them.
	ListTags(ctx context.Context) ([]string, error)
	// BranchHead returns the tip commit of a branch.
	BranchHead(ctx context.Context, branch string) (string, error)
	// CreateTagAndRelease publishes an annotated tag at commit and a release for it.
	CreateTagAndRelease(ctx context.Context, tag, message, commit string) error
}
