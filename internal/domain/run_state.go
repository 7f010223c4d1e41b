package domain

import (
	"time"
)

// RunStatus represents the overall status of a tagging run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus represents the status of an individual step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepType identifies a pipeline step
type StepType string

const (
	StepTypeResolveCommit        StepType = "resolve_commit"
	StepTypeReadVersion          StepType = "read_version"
	StepTypeResolveChangeRequest StepType = "resolve_change_request"
	StepTypeDeriveTitle          StepType = "derive_title"
	StepTypeCalculateVersion     StepType = "calculate_version"
	StepTypePublishTag           StepType = "publish_tag"
)

// RunState is the journal of a single tagging run
type RunState struct {
	SessionID  string       `json:"session_id"`
	Mode       Mode         `json:"mode"`
	Repository string       `json:"repository,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Commit     string       `json:"commit,omitempty"`
	Version    string       `json:"version,omitempty"`
	Steps      []StepRecord `json:"steps"`
	Status     RunStatus    `json:"status"`
	Error      string       `json:"error,omitempty"`
}

// StepRecord represents a single step in the run
type StepRecord struct {
	Type        StepType       `json:"type"`
	Status      StepStatus     `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// NewRunState creates a new run state
func NewRunState(sessionID string, mode Mode, repository string) *RunState {
	now := time.Now()
	return &RunState{
		SessionID:  sessionID,
		Mode:       mode,
		Repository: repository,
		StartedAt:  now,
		UpdatedAt:  now,
		Steps:      []StepRecord{},
		Status:     RunStatusPending,
	}
}

// AddStep adds a new pending step record
func (rs *RunState) AddStep(stepType StepType) *StepRecord {
	rs.Steps = append(rs.Steps, StepRecord{
		Type:      stepType,
		Status:    StepStatusPending,
		StartedAt: time.Now(),
	})
	rs.UpdatedAt = time.Now()
	return &rs.Steps[len(rs.Steps)-1]
}

// Step returns the record for a step type, or nil.
func (rs *RunState) Step(stepType StepType) *StepRecord {
	for i := range rs.Steps {
		if rs.Steps[i].Type == stepType {
			return &rs.Steps[i]
		}
	}
	return nil
}

// CompletedSteps returns all completed steps in execution order
func (rs *RunState) CompletedSteps() []StepRecord {
	var completed []StepRecord
	for _, s := range rs.Steps {
		if s.Status == StepStatusCompleted {
			completed = append(completed, s)
		}
	}
	return completed
}

// MarkStepStarted marks a pending step as running
func (rs *RunState) MarkStepStarted(stepType StepType) {
	if s := rs.Step(stepType); s != nil && s.Status == StepStatusPending {
		s.Status = StepStatusRunning
		s.StartedAt = time.Now()
		rs.UpdatedAt = time.Now()
	}
}

// MarkStepCompleted marks a running step as completed with its result
func (rs *RunState) MarkStepCompleted(stepType StepType, result map[string]any) {
	now := time.Now()
	if s := rs.Step(stepType); s != nil && s.Status == StepStatusRunning {
		s.Status = StepStatusCompleted
		s.CompletedAt = &now
		s.Result = result
		rs.UpdatedAt = now
	}
}

// MarkStepFailed marks a running step and the run as failed
func (rs *RunState) MarkStepFailed(stepType StepType, err error) {
	now := time.Now()
	if s := rs.Step(stepType); s != nil && s.Status == StepStatusRunning {
		s.Status = StepStatusFailed
		s.CompletedAt = &now
		s.Error = err.Error()
	}
	rs.UpdatedAt = now
	rs.Status = RunStatusFailed
	rs.Error = err.Error()
}
