package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
	"github.com/compozy/autotag/internal/usecase"
	"go.uber.org/zap"
)

// TagReleaseConfig contains configuration for a tagging run.
type TagReleaseConfig struct {
	Mode       domain.Mode
	Repository string
	CIOutput   bool
	// Timeout bounds the whole run; zero uses DefaultWorkflowTimeout.
	Timeout time.Duration
}

// TagReleaseOrchestrator runs the tagging pipeline: resolve the commit, read the
// current version, find the change request, derive the title, pick the next
// version and publish the tag.
type TagReleaseOrchestrator struct {
	source    repository.VersionSource
	forge     repository.ForgeRepository
	stateRepo repository.StateRepository
	logger    *zap.Logger
	out       io.Writer
}

// NewTagReleaseOrchestrator creates a new tagging orchestrator. stateRepo may be
// nil to run without a journal.
func NewTagReleaseOrchestrator(
	source repository.VersionSource,
	forge repository.ForgeRepository,
	stateRepo repository.StateRepository,
	logger *zap.Logger,
) *TagReleaseOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagReleaseOrchestrator{
		source:    source,
		forge:     forge,
		stateRepo: stateRepo,
		logger:    logger,
		out:       os.Stdout,
	}
}

// SetOutput redirects CI output
func (o *TagReleaseOrchestrator) SetOutput(w io.Writer) {
	o.out = w
}

// workflowContext holds shared state between steps
type workflowContext struct {
	commit      string
	previous    *domain.Version
	previousTag string
	match       domain.ChangeRequestMatch
	title       string
	release     *domain.Release
}

// Execute runs one tagging run and returns the published release.
func (o *TagReleaseOrchestrator) Execute(ctx context.Context, cfg TagReleaseConfig) (*domain.Release, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultWorkflowTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pipeline := NewStepExecutor(o.stateRepo, o.logger, cfg.Mode, cfg.Repository)
	logger := pipeline.Logger()
	logger.Info("starting tagging run",
		zap.String("mode", string(cfg.Mode)),
		zap.String("repository", cfg.Repository),
	)
	wctx := &workflowContext{}
	o.addResolveCommitStep(pipeline, wctx)
	o.addReadVersionStep(pipeline, cfg, wctx)
	o.addResolveChangeRequestStep(pipeline, logger, wctx)
	o.addDeriveTitleStep(pipeline, wctx)
	o.addCalculateVersionStep(pipeline, logger, wctx)
	o.addPublishTagStep(pipeline, wctx)

	if err := pipeline.Execute(ctx); err != nil {
		return nil, fmt.Errorf("tagging failed: %w", err)
	}
	release := wctx.release
	logger.Info("tag published",
		zap.String("tag", release.TagName),
		zap.String("commit", release.Commit),
		zap.String("bump", string(release.Bump)),
	)
	previous := ""
	if release.PreviousVersion != nil {
		previous = release.PreviousVersion.String()
	}
	o.printCIOutput(cfg.CIOutput, "commit=%s\n", release.Commit)
	o.printCIOutput(cfg.CIOutput, "previous_version=%s\n", previous)
	o.printCIOutput(cfg.CIOutput, "bump=%s\n", release.Bump)
	o.printCIOutput(cfg.CIOutput, "tag=%s\n", release.TagName)
	if o.stateRepo != nil {
		o.printCIOutput(cfg.CIOutput, "run_id=%s\n", pipeline.SessionID())
	}
	return release, nil
}

// printCIOutput prints output in CI format if enabled
func (o *TagReleaseOrchestrator) printCIOutput(ciOutput bool, format string, args ...any) {
	if ciOutput {
		fmt.Fprintf(o.out, format, args...)
	}
}

func (o *TagReleaseOrchestrator) addResolveCommitStep(pipeline *StepExecutor, wctx *workflowContext) {
	pipeline.AddStep(PipelineStep{
		Name: "Resolve Commit",
		Type: domain.StepTypeResolveCommit,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.ResolveCommitUseCase{Source: o.source}
			commit, err := uc.Execute(ctx)
			if err != nil {
				return nil, err
			}
			wctx.commit = commit
			pipeline.SetCommit(commit)
			return map[string]any{"commit": commit}, nil
		},
	})
}

func (o *TagReleaseOrchestrator) addReadVersionStep(
	pipeline *StepExecutor,
	cfg TagReleaseConfig,
	wctx *workflowContext,
) {
	pipeline.AddStep(PipelineStep{
		Name: "Read Version",
		Type: domain.StepTypeReadVersion,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.ReadVersionUseCase{Source: o.source, Mode: cfg.Mode}
			version, tag, err := uc.Execute(ctx)
			if err != nil {
				return nil, err
			}
			wctx.previous, wctx.previousTag = version, tag
			if version == nil {
				return map[string]any{"unversioned": true}, nil
			}
			return map[string]any{"tag": tag, "version": version.String()}, nil
		},
	})
}

func (o *TagReleaseOrchestrator) addResolveChangeRequestStep(
	pipeline *StepExecutor,
	logger *zap.Logger,
	wctx *workflowContext,
) {
	pipeline.AddStep(PipelineStep{
		Name: "Resolve Change Request",
		Type: domain.StepTypeResolveChangeRequest,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.ResolveChangeRequestUseCase{Forge: o.forge, Logger: logger}
			match, err := uc.Execute(ctx, wctx.commit)
			if err != nil {
				return nil, err
			}
			wctx.match = match
			result := map[string]any{"match": match.Kind.String()}
			if match.ChangeRequest != nil {
				result["number"] = match.ChangeRequest.Number
				result["labels"] = match.ChangeRequest.Labels
			}
			return result, nil
		},
	})
}

func (o *TagReleaseOrchestrator) addDeriveTitleStep(pipeline *StepExecutor, wctx *workflowContext) {
	pipeline.AddStep(PipelineStep{
		Name: "Derive Title",
		Type: domain.StepTypeDeriveTitle,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.DeriveTitleUseCase{Forge: o.forge}
			title, err := uc.Execute(ctx, wctx.commit, wctx.match)
			if err != nil {
				return nil, err
			}
			wctx.title = title
			return map[string]any{"title": title}, nil
		},
	})
}

func (o *TagReleaseOrchestrator) addCalculateVersionStep(
	pipeline *StepExecutor,
	logger *zap.Logger,
	wctx *workflowContext,
) {
	pipeline.AddStep(PipelineStep{
		Name: "Calculate Version",
		Type: domain.StepTypeCalculateVersion,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.CalculateVersionUseCase{Logger: logger}
			next, bump := uc.Execute(ctx, wctx.previous, wctx.match)
			if wctx.previous != nil && next.Compare(wctx.previous) <= 0 {
				return nil, fmt.Errorf("next version %s is not greater than %s", next, wctx.previous)
			}
			tag := next.String()
			if err := ValidateTagName(tag); err != nil {
				return nil, fmt.Errorf("invalid version: %w", err)
			}
			wctx.release = &domain.Release{
				Version:         next,
				PreviousVersion: wctx.previous,
				Bump:            bump,
				TagName:         tag,
				Message:         domain.TagMessage(wctx.title),
				Commit:          wctx.commit,
				Title:           wctx.title,
				ChangeRequest:   wctx.match.ChangeRequest,
			}
			pipeline.SetVersion(tag)
			return map[string]any{"version": tag, "bump": string(bump)}, nil
		},
	})
}

func (o *TagReleaseOrchestrator) addPublishTagStep(pipeline *StepExecutor, wctx *workflowContext) {
	pipeline.AddStep(PipelineStep{
		Name: "Publish Tag",
		Type: domain.StepTypePublishTag,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.PublishTagUseCase{Source: o.source}
			if err := uc.Execute(ctx, wctx.release); err != nil {
				return nil, err
			}
			return map[string]any{"tag": wctx.release.TagName, "message": wctx.release.Message}, nil
		},
	})
}
