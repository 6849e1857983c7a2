// Package workflow drives a Flow: it launches runnable steps, reacts to their
// completion and keeps the state snapshot current.
package workflow

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/stepflow/internal/exec"
	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/log"
	"github.com/felixgeelhaar/stepflow/internal/spec"
)

// Store persists step records
type Store interface {
	Update(records map[string]flow.StepRecord) error
}

// Event reports a step starting or finishing
type Event struct {
	Step     string
	State    flow.StepState
	ExitCode int
	Duration time.Duration
	LogFile  string
	Err      error
}

// Observer receives events on the coordinating goroutine
type Observer func(Event)

// Engine runs a Flow. It is not safe for concurrent use; all Flow mutation
// happens on the goroutine calling its methods.
type Engine struct {
	flow        *flow.Flow
	store       Store
	runner      exec.Runner
	logger      *log.Logger
	observer    Observer
	clock       func() time.Time
	retention   int
	maxParallel int
	logDir      string
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithObserver registers a callback for step events
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock replaces time.Now
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRetention sets how many runs are kept per step. Zero or less keeps all.
func WithRetention(n int) Option {
	return func(e *Engine) { e.retention = n }
}

// WithMaxParallel caps the number of concurrently running steps. Zero or less
// means no cap.
func WithMaxParallel(n int) Option {
	return func(e *Engine) { e.maxParallel = n }
}

// WithLogDir sets the directory holding per-step run logs
func WithLogDir(dir string) Option {
	return func(e *Engine) { e.logDir = dir }
}

// NewEngine creates an engine for f
func NewEngine(f *flow.Flow, store Store, runner exec.Runner, opts ...Option) *Engine {
	e := &Engine{
		flow:      f,
		store:     store,
		runner:    runner,
		logger:    log.Discard(),
		clock:     time.Now,
		retention: flow.DefaultRetention,
		logDir:    "logs",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flow returns the flow driven by the engine
func (e *Engine) Flow() *flow.Flow {
	return e.flow
}

// RunSummary is the outcome of Run
type RunSummary struct {
	Counts   map[flow.StepState]int
	Launched int
	Failed   []string
	Duration time.Duration
}

// Succeeded reports whether no step ended failed
func (s *RunSummary) Succeeded() bool {
	return len(s.Failed) == 0
}

type completion struct {
	step   *flow.Step
	run    *flow.StepRun
	result exec.Result
}

// Run executes every runnable step and keeps going as completions unlock
// further steps. It returns once nothing is left in flight.
//
// Steps left running by an interrupted invocation are closed out as failed,
// and every failed step is reset together with its descendants before
// anything is launched.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	started := e.clock()

	if err := e.prepare(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	done := make(chan completion, e.flow.Len())
	pending, launched := 0, 0
	var fatal error

	launch := func() {
		for _, s := range e.flow.StepsInState(flow.StateWaitingForRun) {
			if e.maxParallel > 0 && pending >= e.maxParallel {
				return
			}
			req, run, err := e.start(s)
			if err != nil {
				fatal = err
				cancel()
				return
			}
			pending++
			launched++
			g.Go(func() error {
				done <- completion{step: s, run: run, result: e.runner.Run(gctx, req)}
				return nil
			})
		}
	}

	if ctx.Err() == nil {
		launch()
	}
	for pending > 0 {
		c := <-done
		pending--
		if err := e.finish(c); err != nil && fatal == nil {
			fatal = err
			cancel()
		}
		if fatal == nil && ctx.Err() == nil {
			launch()
		}
	}
	_ = g.Wait()

	summary := e.summarize(started, launched)
	if fatal != nil {
		return summary, fatal
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// prepare readies a flow loaded from a snapshot for a new run
func (e *Engine) prepare() error {
	now := e.clock()
	for _, s := range e.flow.StepsInState(flow.StateRunning) {
		if last := s.LastRun(); last != nil {
			last.Finish(now, -1)
		}
		s.Transition(flow.StateFailed)
		e.logger.Warn("closing step left running by an earlier invocation", "step", s.Name)
	}

	var failed []string
	for _, s := range e.flow.StepsInState(flow.StateFailed) {
		failed = append(failed, s.Name)
	}
	if len(failed) > 0 {
		e.logger.Info("resetting failed steps", "steps", failed)
		if _, err := e.flow.Reset(failed, true); err != nil {
			return err
		}
	}

	e.flow.Clean()
	return e.persist()
}

func (e *Engine) start(s *flow.Step) (exec.Request, *flow.StepRun, error) {
	now := e.clock()

	var logFile string
	if s.Log == spec.LogModeFile {
		logFile = exec.LogFilePath(e.logDir, s.Name, now)
	}

	s.Transition(flow.StateRunning)
	run := flow.NewStepRun(now, logFile)
	for _, old := range s.PushRun(run, e.retention) {
		if err := exec.RemoveLog(old.LogFile); err != nil {
			e.logger.Debug("failed to remove evicted run log", "step", s.Name, "file", old.LogFile, "error", err)
		}
	}

	if err := e.persist(); err != nil {
		return exec.Request{}, nil, err
	}

	e.logger.Info("step started", "step", s.Name)
	e.notify(Event{Step: s.Name, State: flow.StateRunning, LogFile: logFile})

	return exec.Request{
		Step:    s.Name,
		Command: s.Command,
		Dir:     s.Cwd,
		Env:     e.flow.Environment(s),
		LogMode: s.Log,
		LogFile: logFile,
	}, run, nil
}

func (e *Engine) finish(c completion) error {
	s := c.step
	c.run.Finish(e.clock(), c.result.ExitCode)

	if c.result.Succeeded {
		s.Transition(flow.StateSucceeded)
	} else {
		s.Transition(flow.StateFailed)
	}

	duration, _ := c.run.Duration()
	logger := e.logger.With("step", s.Name, "exit_code", c.result.ExitCode, "duration", duration)
	if c.result.Err != nil {
		logger.WithError(c.result.Err).Warn("step could not be run")
	} else {
		logger.Info("step finished", "state", string(s.State))
	}

	e.flow.MarkDescendantsDirty(s)
	e.flow.Clean()

	e.notify(Event{
		Step:     s.Name,
		State:    s.State,
		ExitCode: c.result.ExitCode,
		Duration: duration,
		LogFile:  c.run.LogFile,
		Err:      c.result.Err,
	})

	return e.persist()
}

func (e *Engine) summarize(started time.Time, launched int) *RunSummary {
	summary := &RunSummary{
		Counts:   e.flow.Counts(),
		Launched: launched,
		Duration: e.clock().Sub(started),
	}
	for _, s := range e.flow.StepsInState(flow.StateFailed) {
		summary.Failed = append(summary.Failed, s.Name)
	}
	return summary
}

func (e *Engine) persist() error {
	return e.store.Update(e.flow.Records())
}

func (e *Engine) notify(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}
