package repository

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
)

// VersionSource is where a run reads its commit and latest tag from and where it
// publishes the new tag. Local and remote modes differ only in their source.
type VersionSource interface {
	CurrentCommit(ctx context.Context) (string, error)
	// LatestTag returns the current version tag, or "" when the repository has none.
	LatestTag(ctx context.Context) (string, error)
	PublishTag(ctx context.Context, release *domain.Release) error
}

// localSource reads from and publishes to a checked-out repository.
type localSource struct {
	git GitRepository
}

// NewLocalSource creates a VersionSource backed by a local repository.
func NewLocalSource(git GitRepository) VersionSource {
	return &localSource{git: git}
}

func (s *localSource) CurrentCommit(ctx context.Context) (string, error) {
	return s.git.HeadCommit(ctx)
}

func (s *localSource) LatestTag(ctx context.Context) (string, error) {
	return s.git.LatestTag(ctx)
}

// PublishTag creates the annotated tag at HEAD and pushes all tags.
func (s *localSource) PublishTag(ctx context.Context, release *domain.Release) error {
	exists, err := s.git.TagExists(ctx, release.TagName)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag %s already exists", release.TagName)
	}
	if err := s.git.CreateTag(ctx, release.TagName, release.Message); err != nil {
		return err
	}
	if err := s.git.PushTags(ctx); err != nil {
		return fmt.Errorf("failed to push tags: %w", err)
	}
	return nil
}

// remoteSource works purely through the forge API.
type remoteSource struct {
	forge  ForgeRepository
	branch string
}

// NewRemoteSource creates a VersionSource that reads the tip of branch and the
// forge's tag listing.
func NewRemoteSource(forge ForgeRepository, branch string) VersionSource {
	return &remoteSource{forge: forge, branch: branch}
}

func (s *remoteSource) CurrentCommit(ctx context.Context) (string, error) {
	return s.forge.BranchHead(ctx, s.branch)
}

// LatestTag returns the first tag of the forge listing.
func (s *remoteSource) LatestTag(ctx context.Context) (string, error) {
	tags, err := s.forge.ListTags(ctx)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0], nil
}

func (s *remoteSource) PublishTag(ctx context.Context, release *domain.Release) error {
	return s.forge.CreateTagAndRelease(ctx, release.TagName, release.Message, release.Commit)
}
