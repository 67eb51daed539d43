package pipeline

import (
	"context"
	"testing"

	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(2)
	h.Add(&report.ExecutionState{ID: "1"})
	h.Add(&report.ExecutionState{ID: "2"})
	h.Add(&report.ExecutionState{ID: "3"})

	runs := h.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "2", runs[0].ID)
	assert.Equal(t, "3", runs[1].ID)
	assert.Equal(t, "3", h.Last().ID)
}

func TestHistoryHandsOutCopies(t *testing.T) {
	h := NewHistory(0)
	s := &report.ExecutionState{ID: "1", Steps: []report.StepRecord{{Name: "a"}}}
	h.Add(s)
	s.Steps[0].Name = "mutated"

	got := h.Runs()[0]
	assert.Equal(t, "a", got.Steps[0].Name)
	got.Steps[0].Name = "again"
	assert.Equal(t, "a", h.Last().Steps[0].Name)

	h.Clear()
	assert.Nil(t, h.Last())
	assert.Equal(t, 0, h.Len())
}

func TestExecutorHistoryLimit(t *testing.T) {
	e := New(Options{HistoryLimit: 2})
	m := newMap(nil, nil)
	var ids []string
	for i := 0; i < 3; i++ {
		state, err := e.ExecutePipeline(context.Background(), m, &params.Parameters{})
		require.NoError(t, err)
		ids = append(ids, state.ID)
	}

	runs := e.History().Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, ids[1], runs[0].ID)
	assert.Equal(t, ids[2], runs[1].ID)
}
