package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/legaldesk/casectl/internal/store"
)

// ToRun converts a snapshot to its stored form.
func ToRun(s Snapshot) store.Run {
	failed := make([]store.Failure, len(s.Failed))
	for i, f := range s.Failed {
		failed[i] = store.Failure{Step: f.Step, Message: f.Message}
	}
	return store.Run{
		ID:         s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Completed:  s.Completed,
		Failed:     failed,
		IsComplete: s.IsComplete,
		Cancelled:  s.Cancelled,
	}
}

// FromRun converts a stored run back to a snapshot.
func FromRun(r store.Run) Snapshot {
	failed := make([]StepError, len(r.Failed))
	for i, f := range r.Failed {
		failed[i] = StepError{Step: f.Step, Message: f.Message}
	}
	completed := r.Completed
	if completed == nil {
		completed = []string{}
	}
	return Snapshot{
		RunID:      r.ID,
		Completed:  completed,
		Failed:     failed,
		IsComplete: r.IsComplete,
		Cancelled:  r.Cancelled,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// Reader is the read side of the analysis store. *store.Store satisfies it.
type Reader interface {
	LatestRun(ctx context.Context) (store.Run, bool, error)
	LatestSuccess(ctx context.Context, step string) (store.Step, bool, error)
}

// Latest returns the snapshot of the most recent run.
func Latest(ctx context.Context, r Reader) (Snapshot, bool, error) {
	run, ok, err := r.LatestRun(ctx)
	if err != nil || !ok {
		return Snapshot{}, ok, err
	}
	return FromRun(run), true, nil
}

// LatestResult decodes the most recent successful result of step into T.
func LatestResult[T any](ctx context.Context, r Reader, step string) (T, bool, error) {
	var out T
	s, ok, err := r.LatestSuccess(ctx, step)
	if err != nil || !ok {
		return out, ok, err
	}
	if err := json.Unmarshal(s.Payload, &out); err != nil {
		return out, false, fmt.Errorf("decode stored %s result: %w", step, err)
	}
	return out, true, nil
}
