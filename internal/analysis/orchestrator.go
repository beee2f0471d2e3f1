// Package analysis runs the fixed sequence of backend analysis calls, tracks
// per-step outcomes and persists every result so the last computed view
// survives a restart.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/legaldesk/casectl/internal/log"
	"github.com/legaldesk/casectl/internal/store"
)

// ErrRunning is returned when Run is called while a run is in progress.
var ErrRunning = errors.New("analysis is already running")

// StepError records a failed step.
type StepError struct {
	Step    string `json:"step" yaml:"step"`
	Message string `json:"message" yaml:"message"`
}

// Snapshot is the state of a run.
type Snapshot struct {
	RunID     string      `json:"runId" yaml:"runId"`
	Completed []string    `json:"completed" yaml:"completed"`
	Failed    []StepError `json:"failed" yaml:"failed"`
	// IsComplete is set once every step was attempted exactly once.
	IsComplete bool      `json:"isComplete" yaml:"isComplete"`
	Cancelled  bool      `json:"cancelled" yaml:"cancelled"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero" yaml:"finishedAt,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	s.Completed = slices.Clone(s.Completed)
	s.Failed = slices.Clone(s.Failed)
	return s
}

// Status is the state of a step in a progress event.
type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusDiscarded Status = "discarded"
)

// Event reports step progress. Index is zero based.
type Event struct {
	Step   string
	Index  int
	Total  int
	Status Status
	Err    error
}

// Recorder persists run snapshots and step results. *store.Store
// satisfies it.
type Recorder interface {
	SaveRun(ctx context.Context, r store.Run) error
	SaveStep(ctx context.Context, s store.Step) error
}

// Invalidator drops cached responses. *cache.Cache satisfies it.
type Invalidator interface {
	Invalidate()
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithInvalidator(i Invalidator) Option {
	return func(o *Orchestrator) { o.invalidator = i }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithListener receives progress events on the Run goroutine.
func WithListener(fn func(Event)) Option {
	return func(o *Orchestrator) { o.listener = fn }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator runs steps strictly one after another. A failing step is
// recorded and the run continues; there are no retries. Cancel stops the
// run after the in-flight step, whose result is discarded.
type Orchestrator struct {
	steps       []Step
	recorder    Recorder
	invalidator Invalidator
	logger      *slog.Logger
	listener    func(Event)
	now         func() time.Time

	running   atomic.Bool
	cancelled atomic.Bool

	mu   sync.Mutex
	snap Snapshot
}

// New builds an orchestrator over steps.
func New(steps []Step, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		steps:  slices.Clone(steps),
		logger: log.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Steps returns the step names in order.
func (o *Orchestrator) Steps() []string {
	names := make([]string, len(o.steps))
	for i, s := range o.steps {
		names[i] = s.Name
	}
	return names
}

// Running reports whether a run is in progress.
func (o *Orchestrator) Running() bool { return o.running.Load() }

// Snapshot returns a copy of the current or last run state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap.clone()
}

// Cancel asks a running sequence to stop. The in-flight request is not
// aborted. Safe to call from any goroutine.
func (o *Orchestrator) Cancel() {
	if o.running.Load() {
		o.cancelled.Store(true)
	}
}

// Run executes every step and returns the final snapshot. Step failures are
// reported in the snapshot, not as an error. Cancelling ctx acts like
// Cancel.
func (o *Orchestrator) Run(ctx context.Context) (Snapshot, error) {
	if !o.running.CompareAndSwap(false, true) {
		return o.Snapshot(), ErrRunning
	}
	defer o.running.Store(false)
	o.cancelled.Store(false)

	runID := uuid.NewString()
	o.update(func(s *Snapshot) {
		*s = Snapshot{
			RunID:     runID,
			Completed: []string{},
			Failed:    []StepError{},
			StartedAt: o.now(),
		}
	})
	logger := o.logger.With("run_id", runID)
	logger.Info("analysis started", "steps", len(o.steps))
	o.saveRun(ctx, logger)

	attempted := 0
	for i, step := range o.steps {
		if o.stopped(ctx) {
			break
		}
		o.emit(Event{Step: step.Name, Index: i, Total: len(o.steps), Status: StatusRunning})

		stepCtx := log.WithHTTPLogContext(ctx, log.HTTPLogContext{
			AnalysisRun:  runID,
			AnalysisStep: step.Name,
		})
		result, err := step.Run(stepCtx)

		if o.stopped(ctx) {
			logger.Info("analysis cancelled, discarding step result", "step", step.Name)
			o.emit(Event{Step: step.Name, Index: i, Total: len(o.steps), Status: StatusDiscarded})
			break
		}
		attempted++

		rec := store.Step{RunID: runID, Step: step.Name, Seq: i, RecordedAt: o.now()}
		if err != nil {
			logger.Warn("analysis step failed", "step", step.Name, "error", err)
			o.update(func(s *Snapshot) {
				s.Failed = append(s.Failed, StepError{Step: step.Name, Message: err.Error()})
			})
			rec.Error = err.Error()
			o.saveStep(ctx, logger, rec)
			o.emit(Event{Step: step.Name, Index: i, Total: len(o.steps), Status: StatusFailed, Err: err})
			continue
		}

		payload, mErr := json.Marshal(result)
		if mErr != nil {
			logger.Warn("analysis step result not persisted", "step", step.Name, "error", mErr)
		} else {
			rec.OK = true
			rec.Payload = payload
			o.saveStep(ctx, logger, rec)
		}
		o.update(func(s *Snapshot) {
			s.Completed = append(s.Completed, step.Name)
		})
		logger.Debug("analysis step done", "step", step.Name)
		o.emit(Event{Step: step.Name, Index: i, Total: len(o.steps), Status: StatusDone})
	}

	cancelled := o.cancelled.Load() || ctx.Err() != nil
	o.update(func(s *Snapshot) {
		s.Cancelled = cancelled
		s.IsComplete = !cancelled && attempted == len(o.steps)
		s.FinishedAt = o.now()
	})
	o.saveRun(ctx, logger)

	snap := o.Snapshot()
	logger.Info("analysis finished",
		"completed", len(snap.Completed),
		"failed", len(snap.Failed),
		"complete", snap.IsComplete,
		"cancelled", snap.Cancelled)

	if snap.IsComplete && o.invalidator != nil {
		o.invalidator.Invalidate()
	}
	return snap, nil
}

func (o *Orchestrator) stopped(ctx context.Context) bool {
	return o.cancelled.Load() || ctx.Err() != nil
}

func (o *Orchestrator) update(fn func(*Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(&o.snap)
}

func (o *Orchestrator) emit(e Event) {
	if o.listener != nil {
		o.listener(e)
	}
}

// persistence uses a context that outlives cancellation so a cancelled run
// is still recorded as such.
func (o *Orchestrator) saveRun(ctx context.Context, logger *slog.Logger) {
	if o.recorder == nil {
		return
	}
	snap := o.Snapshot()
	if err := o.recorder.SaveRun(context.WithoutCancel(ctx), ToRun(snap)); err != nil {
		logger.Warn("analysis run not persisted", "error", err)
	}
}

func (o *Orchestrator) saveStep(ctx context.Context, logger *slog.Logger, s store.Step) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.SaveStep(context.WithoutCancel(ctx), s); err != nil {
		logger.Warn("analysis step not persisted", "step", s.Step, "error", err)
	}
}
