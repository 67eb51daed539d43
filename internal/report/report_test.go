package report

import (
	"testing"

	"github.com/bgricker/buildpipe/internal/params"
	"github.com/stretchr/testify/assert"
)

func TestSummaryCounts(t *testing.T) {
	s := &ExecutionState{
		Status: StatusFailed,
		Steps: []StepRecord{
			{Name: "a", Success: true},
			{Name: "b", Success: false, Error: "boom"},
		},
		Result:    Result{Success: false, Message: "boom"},
		ElapsedMS: 12,
	}

	sum := s.Summary()
	assert.Equal(t, 2, sum.TotalSteps)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.ExitCode)
	assert.True(t, s.Done())
}

func TestSummaryFailsOnPlayerBuild(t *testing.T) {
	s := &ExecutionState{
		Status:      StatusSucceeded,
		Result:      Result{Success: true},
		PlayerBuild: &params.BuildReport{Success: false},
	}
	assert.Equal(t, 1, s.Summary().ExitCode)
}

func TestCloneIsIndependent(t *testing.T) {
	s := &ExecutionState{
		Steps:       []StepRecord{{Name: "a", Success: true}},
		PlayerBuild: &params.BuildReport{Success: true},
	}
	c := s.Clone()
	c.Steps[0].Name = "changed"
	c.PlayerBuild.Success = false

	assert.Equal(t, "a", s.Steps[0].Name)
	assert.True(t, s.PlayerBuild.Success)
	assert.False(t, (&ExecutionState{Status: StatusRunning}).Done())
}
