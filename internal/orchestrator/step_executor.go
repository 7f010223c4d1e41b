package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PipelineStep is a single step of a tagging run
type PipelineStep struct {
	Name    string
	Type    domain.StepType
	Execute func(ctx context.Context) (result map[string]any, err error)
}

// StepExecutor runs pipeline steps in order and journals each transition.
// The first failing step stops the run; nothing is retried or undone.
type StepExecutor struct {
	sessionID string
	stateRepo repository.StateRepository
	state     *domain.RunState
	steps     []PipelineStep
	logger    *zap.Logger
}

// NewStepExecutor creates a step executor with a fresh run ID. A nil stateRepo
// disables the journal.
func NewStepExecutor(
	stateRepo repository.StateRepository,
	logger *zap.Logger,
	mode domain.Mode,
	repo string,
) *StepExecutor {
	sessionID := uuid.New().String()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepExecutor{
		sessionID: sessionID,
		stateRepo: stateRepo,
		state:     domain.NewRunState(sessionID, mode, repo),
		steps:     []PipelineStep{},
		logger:    logger.With(zap.String("run_id", sessionID)),
	}
}

// AddStep appends a step to the pipeline
func (s *StepExecutor) AddStep(step PipelineStep) {
	s.steps = append(s.steps, step)
	s.state.AddStep(step.Type)
}

// Execute runs all steps.
func (s *StepExecutor) Execute(ctx context.Context) error {
	s.state.Status = domain.RunStatusRunning
	s.saveState(ctx)
	for _, step := range s.steps {
		if err := s.executeStep(ctx, step); err != nil {
			s.state.MarkStepFailed(step.Type, err)
			s.saveState(ctx)
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
	}
	s.state.Status = domain.RunStatusCompleted
	s.saveState(ctx)
	return nil
}

func (s *StepExecutor) executeStep(ctx context.Context, step PipelineStep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state.MarkStepStarted(step.Type)
	s.saveState(ctx)
	s.logger.Debug("step started", zap.String("step", step.Name))
	result, err := step.Execute(ctx)
	if err != nil {
		return err
	}
	s.state.MarkStepCompleted(step.Type, result)
	s.saveState(ctx)
	s.logger.Debug("step completed", zap.String("step", step.Name), zap.Any("result", result))
	return nil
}

// saveState persists the journal. Failures never fail the run.
func (s *StepExecutor) saveState(ctx context.Context) {
	if s.stateRepo == nil {
		return
	}
	// A canceled run still gets its final journal entry.
	if err := s.stateRepo.Save(context.WithoutCancel(ctx), s.state); err != nil {
		s.logger.Warn("failed to save run journal", zap.Error(err))
	}
}

// SessionID returns the run ID
func (s *StepExecutor) SessionID() string {
	return s.sessionID
}

// State returns the current run journal
func (s *StepExecutor) State() *domain.RunState {
	return s.state
}

// Logger returns the executor's logger, tagged with the run ID
func (s *StepExecutor) Logger() *zap.Logger {
	return s.logger
}

// SetCommit records the resolved commit in the journal
func (s *StepExecutor) SetCommit(commit string) {
	s.state.Commit = commit
}

// SetVersion records the new version in the journal
func (s *StepExecutor) SetVersion(version string) {
	s.state.Version = version
}
