package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	defaultTaggerName  = "autotag"
	defaultTaggerEmail = "autotag@users.noreply.github.com"
)

// GitOptions configures how the local repository talks to its remote.
type GitOptions struct {
	// Remote is the remote tags are pushed to.
	Remote string
	// Token authenticates pushes over HTTP(S).
	Token string
	// Username goes with Token; GitHub accepts x-access-token, GitLab oauth2.
	Username string
}

// gitRepository is the implementation of the GitRepository interface.

type gitRepository struct {
	repo *git.Repository
	opts GitOptions
}

// NewGitRepository opens the repository containing dir.
func NewGitRepository(dir string, opts GitOptions) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Username == "" {
		opts.Username = "x-access-token"
	}
	return &gitRepository{repo: repo, opts: opts}, nil
}

// HeadCommit returns the SHA of the current HEAD commit.
func (r *gitRepository) HeadCommit(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// taggedCommit is a tag resolved to the commit it points at.
type taggedCommit struct {
	name      string
	annotated bool
	when      time.Time
}

// tagsByCommit maps every commit hash to the tags pointing at it.
func (r *gitRepository) tagsByCommit() (map[plumbing.Hash][]taggedCommit, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	byCommit := make(map[plumbing.Hash][]taggedCommit)
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		// Lightweight tag first
		if commit, err := r.repo.CommitObject(ref.Hash()); err == nil {
			byCommit[commit.Hash] = append(byCommit[commit.Hash], taggedCommit{
				name: ref.Name().Short(),
				when: commit.Committer.When,
			})
			return nil
		}
		tag, err := r.repo.TagObject(ref.Hash())
		if err != nil {
			return nil // Skip this tag if we can't resolve it
		}
		commit, err := tag.Commit()
		if err != nil {
			return nil // Tags of trees or blobs are not versions
		}
		byCommit[commit.Hash] = append(byCommit[commit.Hash], taggedCommit{
			name:      ref.Name().Short(),
			annotated: true,
			when:      tag.Tagger.When,
		})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return byCommit, nil
}

// LatestTag returns the tag reachable from HEAD with the fewest commits between
// it and HEAD, like git describe --tags --abbrev=0. Ties go to annotated tags
// over lightweight ones, then to the newest. It returns "" when no tag is
// reachable.
func (r *gitRepository) LatestTag(_ context.Context) (string, error) {
	byCommit, err := r.tagsByCommit()
	if err != nil {
		return "", err
	}
	if len(byCommit) == 0 {
		return "", nil
	}
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	reachable, err := r.ancestors(head.Hash())
	if err != nil {
		return "", err
	}
	var best *taggedCommit
	bestDepth := -1
	for hash, candidates := range byCommit {
		if _, ok := reachable[hash]; !ok {
			continue
		}
		below, err := r.ancestors(hash)
		if err != nil {
			return "", err
		}
		// Commits reachable from HEAD but not from the tagged commit
		depth := len(reachable) - len(below)
		sort.SliceStable(candidates, func(i, j int) bool {
			return preferTag(candidates[i], candidates[j])
		})
		if best == nil || depth < bestDepth || (depth == bestDepth && preferTag(candidates[0], *best)) {
			candidate := candidates[0]
			best, bestDepth = &candidate, depth
		}
	}
	if best == nil {
		return "", nil
	}
	return best.name, nil
}

// preferTag orders tags on equal depth: annotated first, then newest, then by name.
func preferTag(a, b taggedCommit) bool {
	if a.annotated != b.annotated {
		return a.annotated
	}
	if !a.when.Equal(b.when) {
		return a.when.After(b.when)
	}
	return a.name > b.name
}

// ancestors returns every commit reachable from the given commit, itself included.
func (r *gitRepository) ancestors(from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	commits, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("failed to get commits: %w", err)
	}
	seen := make(map[plumbing.Hash]struct{})
	if err := commits.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = struct{}{}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return seen, nil
}

// TagExists checks if a tag exists.
func (r *gitRepository) TagExists(_ context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	return true, nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, tag, msg string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	_, err = r.repo.CreateTag(tag, head.Hash(), &git.CreateTagOptions{
		Message: msg,
		Tagger:  r.tagger(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// tagger uses the configured git identity, falling back to a bot signature.
func (r *gitRepository) tagger() *object.Signature {
	sig := &object.Signature{Name: defaultTaggerName, Email: defaultTaggerEmail, When: time.Now()}
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

// getAuth returns HTTP basic auth for token pushes; other transports use their defaults.
func (r *gitRepository) getAuth() (transport.AuthMethod, error) {
	if r.opts.Token == "" {
		return nil, nil
	}
	remote, err := r.repo.Remote(r.opts.Remote)
	if err != nil {
		return nil, fmt.Errorf("failed to get remote %s: %w", r.opts.Remote, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("remote %s has no url", r.opts.Remote)
	}
	if !strings.HasPrefix(urls[0], "http://") && !strings.HasPrefix(urls[0], "https://") {
		return nil, nil
	}
	return &http.BasicAuth{
		Username: r.opts.Username,
		Password: r.opts.Token,
	}, nil
}

// PushTags pushes all tags to the remote.
func (r *gitRepository) PushTags(ctx context.Context) error {
	auth, err := r.getAuth()
	if err != nil {
		return err
	}
	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.opts.Remote,
		RefSpecs:   []config.RefSpec{"refs/tags/*:refs/tags/*"},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push tags to %s: %w", r.opts.Remote, err)
	}
	return nil
}
