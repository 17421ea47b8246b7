package forms

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// OpStatus describes the lifecycle of an operation run through a
// Tracker.
type OpStatus int32

const (
	// OpIdle means no run has started yet.
	OpIdle OpStatus = iota

	// OpProcessing means a run is in flight.
	OpProcessing

	// OpSucceeded means the latest run settled with data.
	OpSucceeded

	// OpFailed means the latest run settled with an error.
	OpFailed
)

// String returns the string representation of the status.
func (s OpStatus) String() string {
	switch s {
	case OpIdle:
		return "idle"
	case OpProcessing:
		return "processing"
	case OpSucceeded:
		return "succeeded"
	case OpFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation is a unit of work tracked by a Tracker: typically fetching
// or persisting the data behind a control tree.
type Operation[P, T any] func(ctx context.Context, params P) (T, error)

// opRequest carries one run through the pipz pipeline.
type opRequest[P, T any] struct {
	params P
	data   T
}

// TrackOption wraps the operation pipeline with a pipz resilience
// connector.
type TrackOption[P, T any] func(pipz.Chainable[*opRequest[P, T]]) pipz.Chainable[*opRequest[P, T]]

// WithRetry retries a failed run up to maxAttempts times.
func WithRetry[P, T any](maxAttempts int) TrackOption[P, T] {
	return func(p pipz.Chainable[*opRequest[P, T]]) pipz.Chainable[*opRequest[P, T]] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff retries with exponential backoff between attempts.
func WithBackoff[P, T any](maxAttempts int, baseDelay time.Duration) TrackOption[P, T] {
	return func(p pipz.Chainable[*opRequest[P, T]]) pipz.Chainable[*opRequest[P, T]] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout bounds a single run's duration.
func WithTimeout[P, T any](d time.Duration) TrackOption[P, T] {
	return func(p pipz.Chainable[*opRequest[P, T]]) pipz.Chainable[*opRequest[P, T]] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// Tracker records the status, latest result, and latest error of an
// asynchronous operation so the binding layer can render loading and
// failure states without bespoke bookkeeping. Reads are safe from any
// goroutine.
type Tracker[P, T any] struct {
	status atomic.Int32

	mu     sync.RWMutex
	data   T
	err    error
	params P

	pipeline pipz.Chainable[*opRequest[P, T]]
}

// NewTracker builds a tracker around op. Options wrap the run with pipz
// resilience connectors, applied innermost first.
func NewTracker[P, T any](op Operation[P, T], opts ...TrackOption[P, T]) *Tracker[P, T] {
	t := &Tracker[P, T]{}
	var pipeline pipz.Chainable[*opRequest[P, T]] = pipz.Apply("operation",
		func(ctx context.Context, req *opRequest[P, T]) (*opRequest[P, T], error) {
			data, err := op(ctx, req.params)
			if err != nil {
				return req, err
			}
			req.data = data
			return req, nil
		})
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	t.pipeline = pipeline
	return t
}

// Status returns the tracker's current lifecycle status.
func (t *Tracker[P, T]) Status() OpStatus { return OpStatus(t.status.Load()) }

// Idle reports that no run has started.
func (t *Tracker[P, T]) Idle() bool { return t.Status() == OpIdle }

// Processing reports that a run is in flight.
func (t *Tracker[P, T]) Processing() bool { return t.Status() == OpProcessing }

// Succeeded reports that the latest run settled with data.
func (t *Tracker[P, T]) Succeeded() bool { return t.Status() == OpSucceeded }

// Failed reports that the latest run settled with an error.
func (t *Tracker[P, T]) Failed() bool { return t.Status() == OpFailed }

// Data returns the latest successful result.
func (t *Tracker[P, T]) Data() T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data
}

// Err returns the latest failure, or nil.
func (t *Tracker[P, T]) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Params returns the parameters of the latest run.
func (t *Tracker[P, T]) Params() P {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.params
}

// MarkProcessing records an externally driven run starting with params.
// Use the mutator surface when the work runs outside Run, for example a
// save workflow the binding layer drives itself.
func (t *Tracker[P, T]) MarkProcessing(params P) {
	t.mu.Lock()
	t.params = params
	t.mu.Unlock()
	t.transition(OpProcessing)
}

// Succeed records an externally driven run settling with data.
func (t *Tracker[P, T]) Succeed(data T) {
	t.mu.Lock()
	t.data = data
	t.err = nil
	t.mu.Unlock()
	t.transition(OpSucceeded)
}

// Fail records an externally driven run settling with err.
func (t *Tracker[P, T]) Fail(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	t.transition(OpFailed)
}

func (t *Tracker[P, T]) transition(next OpStatus) {
	old := OpStatus(t.status.Swap(int32(next)))
	if old == next {
		return
	}
	capitan.Emit(context.Background(), TrackerStatusChanged,
		KeyOldStatus.Field(old.String()),
		KeyNewStatus.Field(next.String()),
	)
}

// Run executes the operation with params through the configured
// pipeline, recording the outcome. The call is synchronous; callers
// wanting a background run wrap it in a goroutine.
func (t *Tracker[P, T]) Run(ctx context.Context, params P) (T, error) {
	t.MarkProcessing(params)

	req := &opRequest[P, T]{params: params}
	req, err := t.pipeline.Process(ctx, req)
	if err != nil {
		t.Fail(err)
		var zero T
		return zero, err
	}

	t.Succeed(req.data)
	return req.data, nil
}

// Retry re-runs the operation with the parameters of the previous run.
// Without a previous run it runs with the zero parameters.
func (t *Tracker[P, T]) Retry(ctx context.Context) (T, error) {
	t.mu.RLock()
	params := t.params
	t.mu.RUnlock()
	return t.Run(ctx, params)
}
