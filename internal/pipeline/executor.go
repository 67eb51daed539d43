// Package pipeline runs build maps: pre-build commands, the optional player
// build, then post-build commands, stopping at the first failing command.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bgricker/buildpipe/internal/buildmap"
	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/logging"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/platform"
	"github.com/bgricker/buildpipe/internal/report"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRunInProgress is returned when a run is started while another one
	// is active on the same executor.
	ErrRunInProgress = errors.New("a pipeline run is already in progress")
	// ErrCancelled is returned by the first start after Cancel.
	ErrCancelled = errors.New("pipeline run was cancelled")
)

// Options configure an Executor.
type Options struct {
	Builder      platform.Builder
	Log          logrus.FieldLogger
	HistoryLimit int
	Now          func() time.Time
}

// Executor runs one pipeline at a time. Commands execute synchronously on
// the caller's goroutine.
type Executor struct {
	builder platform.Builder
	log     logrus.FieldLogger
	now     func() time.Time
	history *History

	mu              sync.Mutex
	running         bool
	cancelRequested bool
}

// New creates an executor with the supplied options.
func New(opts Options) *Executor {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Executor{
		builder: opts.Builder,
		log:     opts.Log,
		now:     opts.Now,
		history: NewHistory(opts.HistoryLimit),
	}
}

// IsExecuting reports whether a pipeline run is in progress.
func (e *Executor) IsExecuting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Cancel makes the next ExecutePipeline call return ErrCancelled. It never
// interrupts a command that is already executing.
func (e *Executor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelRequested = true
}

// History returns the completed runs of this executor.
func (e *Executor) History() *History {
	return e.history
}

func (e *Executor) acquire() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRunInProgress
	}
	if e.cancelRequested {
		e.cancelRequested = false
		return ErrCancelled
	}
	e.running = true
	return nil
}

func (e *Executor) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// ExecutePipeline runs m against p. A failing command is reported through
// the returned state, not as an error; errors are reserved for runs that
// could not start.
func (e *Executor) ExecutePipeline(ctx context.Context, m *buildmap.BuildMap, p *params.Parameters) (*report.ExecutionState, error) {
	if m == nil {
		return nil, errors.New("no pipeline selected")
	}
	if p == nil {
		return nil, errors.New("no build parameters")
	}
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	state := e.newState(m.Name)
	track := logging.Begin(e.log.WithField("pipeline", m.Name), "pipeline")
	defer track.End()
	log := track.Logger()

	ok := e.runPhase(ctx, log, state, report.PhasePreBuild, m.PreBuild, p)
	if ok && m.PlayerBuildEnabled {
		built := e.playerBuild(ctx, log, p)
		m.LastReport = &built
		stored := built
		p.BuildReport = &stored
		forState := built
		state.PlayerBuild = &forState
	}
	if ok {
		ok = e.runPhase(ctx, log, state, report.PhasePostBuild, m.PostBuild, p)
	}

	e.finish(state, ok)
	if ok {
		log.WithField("elapsed_ms", state.ElapsedMS).Info("pipeline succeeded")
	} else {
		log.WithField("elapsed_ms", state.ElapsedMS).Errorf("pipeline failed: %s", state.Result.Message)
	}
	e.history.Add(state)
	return state, nil
}

// ExecuteStep runs one command outside a pipeline, whatever its active
// flag. The state is not kept in history and the run lock is not taken.
func (e *Executor) ExecuteStep(ctx context.Context, cmd command.Command, p *params.Parameters) (*report.ExecutionState, error) {
	if cmd == nil {
		return nil, errors.New("no command")
	}
	if p == nil {
		return nil, errors.New("no build parameters")
	}
	state := e.newState(cmd.Name())
	log := e.log.WithField("pipeline", cmd.Name())

	record := e.runCommand(ctx, cmd, report.PhaseSingle, p)
	state.Steps = append(state.Steps, record)
	e.logRecord(log, record)
	if !record.Success {
		state.Result.Message = record.Error
	}
	e.finish(state, record.Success)
	return state, nil
}

func (e *Executor) newState(name string) *report.ExecutionState {
	return &report.ExecutionState{
		ID:        uuid.NewString(),
		Pipeline:  name,
		Status:    report.StatusRunning,
		StartedAt: e.now(),
		Steps:     make([]report.StepRecord, 0),
	}
}

func (e *Executor) finish(state *report.ExecutionState, ok bool) {
	state.Elapsed = e.now().Sub(state.StartedAt)
	state.ElapsedMS = state.Elapsed.Milliseconds()
	state.Result.Success = ok
	if ok {
		state.Status = report.StatusSucceeded
		state.Result.Message = ""
		return
	}
	state.Status = report.StatusFailed
}

// runPhase executes the commands of c in order. The active flag is read when
// each command is reached, so earlier commands may toggle later ones.
func (e *Executor) runPhase(ctx context.Context, log logrus.FieldLogger, state *report.ExecutionState, phase report.Phase, c *command.Container, p *params.Parameters) bool {
	for _, cmd := range c.All() {
		if !cmd.Active() {
			log.WithFields(logrus.Fields{"phase": phase, "step": cmd.Name()}).Debug("step inactive")
			continue
		}
		record := e.runCommand(ctx, cmd, phase, p)
		state.Steps = append(state.Steps, record)
		e.logRecord(log, record)
		if !record.Success {
			state.Result.Message = record.Error
			return false
		}
	}
	return true
}

func (e *Executor) runCommand(ctx context.Context, cmd command.Command, phase report.Phase, p *params.Parameters) report.StepRecord {
	start := e.now()
	record := report.StepRecord{Name: cmd.Name(), Phase: phase}

	err := guard(cmd, func() error {
		if !cmd.Validate(p) {
			return fmt.Errorf("validation failed for step: %s", cmd.Name())
		}
		return cmd.Execute(ctx, p)
	})

	record.Duration = e.now().Sub(start)
	record.DurationMS = record.Duration.Milliseconds()
	record.Success = err == nil
	if err != nil {
		record.Error = err.Error()
	}
	return record
}

// guard turns a panic inside a command into an execution failure.
func guard(cmd command.Command, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", cmd.Name(), r)
		}
	}()
	return fn()
}

func (e *Executor) logRecord(log logrus.FieldLogger, record report.StepRecord) {
	entry := log.WithFields(logrus.Fields{
		"phase":       record.Phase,
		"step":        record.Name,
		"duration_ms": record.DurationMS,
	})
	if record.Success {
		entry.Info("step passed")
		return
	}
	entry.Errorf("step failed: %s", record.Error)
}

// playerBuild never aborts the run; post-build commands decide what a
// failed report means.
func (e *Executor) playerBuild(ctx context.Context, log logrus.FieldLogger, p *params.Parameters) params.BuildReport {
	track := logging.Begin(log, "player build")
	defer track.End()

	if e.builder == nil {
		track.Logger().Warn("player build enabled but no builder configured")
		return params.BuildReport{Summary: "no platform builder configured"}
	}

	built, err := e.builder.Build(ctx, p)
	if err != nil {
		built = params.BuildReport{Success: false, Summary: err.Error()}
	}
	if built.Success {
		track.Logger().Info("player build succeeded")
	} else {
		track.Logger().Warnf("player build failed: %s", built.Summary)
	}
	return built
}
