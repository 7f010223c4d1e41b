package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/compozy/autotag/internal/config"
	"github.com/compozy/autotag/internal/domain"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const defaultGitLabURL = "https://gitlab.com"

// gitlabRepository is the GitLab implementation of the ForgeRepository interface.
// Merge requests play the role of change requests.
type gitlabRepository struct {
	gl    *gitlab.Client
	owner string
	repo  string
}

// NewGitlabRepository creates a new ForgeRepository for GitLab. baseURL defaults
// to gitlab.com; the /api/v4 suffix is added here.
func NewGitlabRepository(token, owner, repo, baseURL string) (ForgeRepository, error) {
	if err := config.ValidateToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitLab token: %w", err)
	}
	if err := config.ValidateOwnerRepo(owner, repo, config.ForgeGitLab); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	if baseURL == "" {
		baseURL = defaultGitLabURL
	}
	gl, err := gitlab.NewClient(strings.TrimSpace(token), gitlab.WithBaseURL(strings.TrimSuffix(baseURL, "/")+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("gitlab client: %w", err)
	}
	return &gitlabRepository{gl: gl, owner: owner, repo: repo}, nil
}

func (r *gitlabRepository) pid() string {
	return r.owner + "/" + r.repo
}

// SearchChangeRequests lists merge requests associated with the commit.
func (r *gitlabRepository) SearchChangeRequests(ctx context.Context, commit string) ([]domain.ChangeRequest, error) {
	mrs, _, err := r.gl.Commits.ListMergeRequestsByCommit(r.pid(), commit, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to search merge requests for %s: %w", commit, err)
	}
	found := make([]domain.ChangeRequest, 0, len(mrs))
	for _, mr := range mrs {
		found = append(found, domain.ChangeRequest{
			Number: int(mr.IID), // IID is the project-scoped number
			Title:  mr.Title,
			Labels: []string(mr.Labels),
		})
	}
	return found, nil
}

// SearchCommitMessages looks the commit up by SHA. An unknown SHA yields no messages.
func (r *gitlabRepository) SearchCommitMessages(ctx context.Context, commit string) ([]string, error) {
	c, resp, err := r.gl.Commits.GetCommit(r.pid(), commit, nil, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get commit %s: %w", commit, err)
	}
	return []string{c.Message}, nil
}

// ListTags returns the first page of tags as listed by the API.
func (r *gitlabRepository) ListTags(ctx context.Context) ([]string, error) {
	tags, _, err := r.gl.Tags.ListTags(r.pid(), &gitlab.ListTagsOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for %s: %w", r.pid(), err)
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

// BranchHead returns the SHA at the tip of branch.
func (r *gitlabRepository) BranchHead(ctx context.Context, branch string) (string, error) {
	b, _, err := r.gl.Branches.GetBranch(r.pid(), branch, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s: %w", branch, err)
	}
	if b.Commit == nil || b.Commit.ID == "" {
		return "", fmt.Errorf("branch %s has no commit", branch)
	}
	return b.Commit.ID, nil
}

// CreateTagAndRelease creates an annotated tag at commit and a release for it.
func (r *gitlabRepository) CreateTagAndRelease(ctx context.Context, tag, message, commit string) error {
	_, _, err := r.gl.Tags.CreateTag(r.pid(), &gitlab.CreateTagOptions{
		TagName: gitlab.Ptr(tag),
		Ref:     gitlab.Ptr(commit),
		Message: gitlab.Ptr(message),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	_, _, err = r.gl.Releases.CreateRelease(r.pid(), &gitlab.CreateReleaseOptions{
		Name:        gitlab.Ptr(tag),
		TagName:     gitlab.Ptr(tag),
		Description: gitlab.Ptr(message),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create release %s: %w", tag, err)
	}
	return nil
}
