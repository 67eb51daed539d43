// Package report holds the record of one pipeline run.
package report

import (
	"time"

	"github.com/bgricker/buildpipe/internal/params"
)

// Status is the lifecycle position of a run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Phase tells which part of a pipeline a step belonged to.
type Phase string

const (
	PhasePreBuild  Phase = "pre-build"
	PhasePostBuild Phase = "post-build"
	PhaseSingle    Phase = "single"
)

// StepRecord captures the outcome of a single command.
type StepRecord struct {
	Name       string        `json:"name"`
	Phase      Phase         `json:"phase"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// Result is the aggregate outcome of a run.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ExecutionState records one run. It is only written by the executor while
// the run is in progress.
type ExecutionState struct {
	ID          string              `json:"id"`
	Pipeline    string              `json:"pipeline"`
	Status      Status              `json:"status"`
	StartedAt   time.Time           `json:"started_at"`
	Steps       []StepRecord        `json:"steps"`
	Result      Result              `json:"result"`
	Elapsed     time.Duration       `json:"-"`
	ElapsedMS   int64               `json:"elapsed_ms"`
	PlayerBuild *params.BuildReport `json:"player_build,omitempty"`
}

// Summary aggregates step counts of a run.
type Summary struct {
	TotalSteps int           `json:"total_steps"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	ExitCode   int           `json:"exit_code"`
}

// Done reports whether the run has finished.
func (s *ExecutionState) Done() bool {
	return s.Status == StatusSucceeded || s.Status == StatusFailed
}

// Summary counts the recorded steps.
func (s *ExecutionState) Summary() Summary {
	sum := Summary{
		TotalSteps: len(s.Steps),
		Duration:   s.Elapsed,
		DurationMS: s.ElapsedMS,
	}
	for _, step := range s.Steps {
		if step.Success {
			sum.Passed++
		} else {
			sum.Failed++
		}
	}
	if !s.Result.Success || (s.PlayerBuild != nil && !s.PlayerBuild.Success) {
		sum.ExitCode = 1
	}
	return sum
}

// Clone returns a deep copy.
func (s *ExecutionState) Clone() *ExecutionState {
	out := *s
	out.Steps = append([]StepRecord(nil), s.Steps...)
	if s.PlayerBuild != nil {
		pb := *s.PlayerBuild
		out.PlayerBuild = &pb
	}
	return &out
}
