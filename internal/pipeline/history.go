package pipeline

import (
	"sync"

	"github.com/bgricker/buildpipe/internal/report"
)

// DefaultHistoryLimit is used when no positive limit is configured.
const DefaultHistoryLimit = 20

// History keeps completed runs in memory, oldest first. When full, the
// oldest run is evicted.
type History struct {
	mu    sync.Mutex
	limit int
	runs  []*report.ExecutionState
}

// NewHistory returns a history holding at most limit runs.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add stores a copy of s.
func (h *History) Add(s *report.ExecutionState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, s.Clone())
	if over := len(h.runs) - h.limit; over > 0 {
		h.runs = append([]*report.ExecutionState(nil), h.runs[over:]...)
	}
}

// Runs returns copies of the stored runs, oldest first.
func (h *History) Runs() []*report.ExecutionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*report.ExecutionState, 0, len(h.runs))
	for _, s := range h.runs {
		out = append(out, s.Clone())
	}
	return out
}

// Last returns a copy of the newest run, or nil.
func (h *History) Last() *report.ExecutionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.runs) == 0 {
		return nil
	}
	return h.runs[len(h.runs)-1].Clone()
}

// Len returns the number of stored runs.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.runs)
}

// Clear drops every stored run.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = nil
}
