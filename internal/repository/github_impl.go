package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/autotag/internal/config"
	"github.com/compozy/autotag/internal/domain"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// searchPageSize only has to be large enough to tell one match from several.
const searchPageSize = 10

// githubRepository is the GitHub implementation of the ForgeRepository interface.
type githubRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubRepository creates a new ForgeRepository for GitHub with validation.
// A non-empty baseURL selects a GitHub Enterprise server.
func NewGithubRepository(token, owner, repo, baseURL string) (ForgeRepository, error) {
	if err := config.ValidateToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateOwnerRepo(owner, repo, config.ForgeGitHub); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	// Create OAuth2 client with the validated token
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base url: %w", err)
		}
	}
	return newGithubRepository(client, owner, repo), nil
}

func newGithubRepository(client *github.Client, owner, repo string) *githubRepository {
	return &githubRepository{
		client: client,
		owner:  owner,
		repo:   repo,
	}
}

// SearchChangeRequests finds pull requests containing the commit.
func (r *githubRepository) SearchChangeRequests(ctx context.Context, commit string) ([]domain.ChangeRequest, error) {
	query := fmt.Sprintf("sha:%s repo:%s/%s is:pr", commit, r.owner, r.repo)
	result, _, err := r.client.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests for %s: %w", commit, err)
	}
	found := make([]domain.ChangeRequest, 0, len(result.Issues))
	for _, issue := range result.Issues {
		labels := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			labels = append(labels, l.GetName())
		}
		found = append(found, domain.ChangeRequest{
			Number: issue.GetNumber(),
			Title:  issue.GetTitle(),
			Labels: labels,
		})
	}
	return found, nil
}

// SearchCommitMessages returns the messages of commits whose hash matches.
func (r *githubRepository) SearchCommitMessages(ctx context.Context, commit string) ([]string, error) {
	query := fmt.Sprintf("hash:%s repo:%s/%s", commit, r.owner, r.repo)
	result, _, err := r.client.Search.Commits(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search commits for %s: %w", commit, err)
	}
	messages := make([]string, 0, len(result.Commits))
	for _, c := range result.Commits {
		messages = append(messages, c.GetCommit().GetMessage())
	}
	return messages, nil
}

// ListTags returns the first page of tags as listed by the API.
func (r *githubRepository) ListTags(ctx context.Context) ([]string, error) {
	tags, _, err := r.client.Repositories.ListTags(ctx, r.owner, r.repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for %s/%s: %w", r.owner, r.repo, err)
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.GetName())
	}
	return names, nil
}

// BranchHead returns the SHA at the tip of branch.
func (r *githubRepository) BranchHead(ctx context.Context, branch string) (string, error) {
	b, _, err := r.client.Repositories.GetBranch(ctx, r.owner, r.repo, branch, 1)
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s: %w", branch, err)
	}
	sha := b.GetCommit().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("branch %s has no commit", branch)
	}
	return sha, nil
}

// CreateTagAndRelease creates the tag object, its ref and a release sharing the tag message.
func (r *githubRepository) CreateTagAndRelease(ctx context.Context, tag, message, commit string) error {
	tagObj, _, err := r.client.Git.CreateTag(ctx, r.owner, r.repo, &github.Tag{
		Tag:     github.Ptr(tag),
		Message: github.Ptr(message),
		Object: &github.GitObject{
			Type: github.Ptr("commit"),
			SHA:  github.Ptr(commit),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create tag object %s: %w", tag, err)
	}
	_, _, err = r.client.Git.CreateRef(ctx, r.owner, r.repo, &github.Reference{
		Ref:    github.Ptr("refs/tags/" + tag),
		Object: &github.GitObject{SHA: tagObj.SHA},
	})
	if err != nil {
		return fmt.Errorf("failed to create tag ref %s: %w", tag, err)
	}
	_, _, err = r.client.Repositories.CreateRelease(ctx, r.owner, r.repo, &github.RepositoryRelease{
		TagName:         github.Ptr(tag),
		TargetCommitish: github.Ptr(commit),
		Name:            github.Ptr(tag),
		Body:            github.Ptr(message),
	})
	if err != nil {
		return fmt.Errorf("failed to create release %s: %w", tag, err)
	}
	return nil
}
