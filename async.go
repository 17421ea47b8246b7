package forms

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// asyncRun tracks a control's outstanding async validation. The
// validator goroutine never touches control state: it hands its result
// off here and the owning goroutine applies it at the start of its next
// operation. The generation counter makes a superseded run's result
// unobservable even if its context cancellation races the hand-off.
type asyncRun struct {
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending bool

	// ready marks a handed-off result waiting for the owning goroutine.
	ready  bool
	result Errors
	emit   bool
}

func (a *asyncRun) outstanding() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// runAsyncValidator starts a fresh validation run against the control's
// composed async validator. The control moves to PENDING until the run
// settles or is superseded. The validator receives a snapshot of the
// value, so the goroutine shares nothing with the tree.
func (b *abstractControl) runAsyncValidator(emit bool) {
	if b.composedAsync == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())

	b.async.mu.Lock()
	b.async.gen++
	gen := b.async.gen
	b.async.cancel = cancel
	b.async.pending = true
	b.async.ready = false
	b.async.result = nil
	b.async.mu.Unlock()

	b.transitionStatus(StatusPending)
	capitan.Emit(ctx, AsyncValidationStarted)

	validator := b.composedAsync
	value := b.value
	go func() {
		errs, err := validator(ctx, value)
		if err != nil {
			errs = mergeErrors(errs, Errors{asyncFailureKey: err.Error()})
		}
		if ctx.Err() != nil {
			return
		}
		b.handOff(gen, errs, emit)
	}()
}

// handOff publishes the result of run gen for the owning goroutine to
// apply, then signals the root's force-update hook. A stale generation
// means the run was superseded while in flight; its result is dropped.
func (b *abstractControl) handOff(gen uint64, errs Errors, emit bool) {
	b.async.mu.Lock()
	if gen != b.async.gen {
		b.async.mu.Unlock()
		return
	}
	b.async.ready = true
	b.async.result = errs
	b.async.emit = emit
	b.async.mu.Unlock()

	b.notifyForceUpdate()
}

// consumeSettled applies a handed-off result. Runs on the owning
// goroutine at the start of its next operation, so it may touch control
// state freely.
func (b *abstractControl) consumeSettled() {
	b.async.mu.Lock()
	if !b.async.ready {
		b.async.mu.Unlock()
		return
	}
	errs := b.async.result
	emit := b.async.emit
	b.async.ready = false
	b.async.result = nil
	b.async.pending = false
	b.async.cancel = nil
	b.async.mu.Unlock()

	capitan.Emit(context.Background(), AsyncValidationSettled,
		KeyErrorKeys.Field(errorKeys(errs)),
	)
	if len(errs) == 0 {
		errs = nil
	}
	b.errors = errs
	b.updateControlsErrors(emit)
}

// cancelAsyncValidation abandons any outstanding run: the context is
// canceled, the generation advanced so a hand-off already past the
// context check still misses, and an unapplied result is dropped.
func (b *abstractControl) cancelAsyncValidation() {
	b.async.mu.Lock()
	cancel := b.async.cancel
	wasPending := b.async.pending
	b.async.gen++
	b.async.cancel = nil
	b.async.pending = false
	b.async.ready = false
	b.async.result = nil
	b.async.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if wasPending {
		capitan.Emit(context.Background(), AsyncValidationCanceled)
	}
}

// Delay builds an async validator that settles with errs after d elapses
// on clock. Cancellation aborts the wait immediately. Pass a nil errs for
// a validator that passes; pair with clockz.NewFakeClock for
// deterministic pending-state tests.
func Delay(clock clockz.Clock, d time.Duration, errs Errors) AsyncValidatorFunc {
	return func(ctx context.Context, _ any) (Errors, error) {
		timer := clock.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C():
			return errs, nil
		}
	}
}
