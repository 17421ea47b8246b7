package forms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default coalescing window for loader change
// processing.
const DefaultDebounce = 100 * time.Millisecond

// DefaultFailureHistory is the default capacity of the loader's failure
// log.
const DefaultFailureHistory = 10

// Loader feeds a control tree from an external source: it watches for
// raw payloads, decodes them, and applies them to the target. Rapid
// changes are coalesced within a debounce window; failures are recorded
// and the previous tree state is kept.
//
// Each apply runs through the loader's Tracker, so the binding layer can
// render loading and failure states, and TrackOptions add retry, backoff,
// or timeout behavior around the decode-and-apply step.
type Loader struct {
	watcher  Watcher
	target   Control
	codec    Codec
	debounce time.Duration
	syncMode bool
	strict   bool
	clock    clockz.Clock

	history *failureLog
	tracker *Tracker[[]byte, any]

	mu      sync.Mutex
	started bool

	// Sync mode holds the watcher channel for manual pumping.
	changes <-chan []byte
}

// NewLoader builds a loader applying watcher payloads to target. The
// default configuration decodes YAML (which also accepts JSON), patches
// rather than strictly sets, debounces at DefaultDebounce, and keeps the
// last DefaultFailureHistory failures.
func NewLoader(watcher Watcher, target Control, opts ...TrackOption[[]byte, any]) *Loader {
	l := &Loader{
		watcher:  watcher,
		target:   target,
		codec:    YAMLCodec{},
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		history:  newFailureLog(DefaultFailureHistory),
	}
	l.tracker = NewTracker(l.decodeAndApply, opts...)
	return l
}

// WithCodec sets the payload codec.
func (l *Loader) WithCodec(c Codec) *Loader {
	l.codec = c
	return l
}

// WithDebounce sets the coalescing window. Changes arriving within the
// window collapse into a single apply of the latest payload.
func (l *Loader) WithDebounce(d time.Duration) *Loader {
	l.debounce = d
	return l
}

// WithStrict makes the loader apply payloads with SetValue instead of
// PatchValue: the payload must cover the whole tree, and a failed apply
// rolls the tree back to its previous value.
func (l *Loader) WithStrict() *Loader {
	l.strict = true
	return l
}

// WithSyncMode disables the background watch goroutine and debouncing.
// Start processes only the initial payload; pump later ones with
// Process. For deterministic tests.
func (l *Loader) WithSyncMode() *Loader {
	l.syncMode = true
	return l
}

// WithClock sets the clock used for debounce timers and failure
// timestamps. Pair with clockz.NewFakeClock for deterministic debounce
// tests.
func (l *Loader) WithClock(clock clockz.Clock) *Loader {
	l.clock = clock
	return l
}

// WithFailureHistory sets the failure log capacity. Zero disables the
// log.
func (l *Loader) WithFailureHistory(size int) *Loader {
	l.history = newFailureLog(size)
	return l
}

// Tracker returns the tracker recording the loader's apply lifecycle.
func (l *Loader) Tracker() *Tracker[[]byte, any] { return l.tracker }

// Failures returns the recorded apply failures, oldest first.
func (l *Loader) Failures() []Failure { return l.history.all() }

// Start begins watching. It blocks until the first payload is processed
// and returns that payload's outcome, then keeps watching in the
// background; later failures are recorded, not returned. Start can only
// be called once.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("forms: loader already started")
	}
	l.started = true
	l.mu.Unlock()

	capitan.Emit(ctx, LoaderStarted,
		KeyDebounce.Field(l.debounce),
	)

	changes, err := l.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("forms: starting watcher: %w", err)
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("forms: watcher closed before emitting an initial payload")
		}
		capitan.Emit(ctx, LoaderChangeReceived)
		initialErr = l.process(ctx, raw)
	}

	if l.syncMode {
		l.changes = changes
		return initialErr
	}

	go l.watch(ctx, changes)
	return initialErr
}

// Process pumps one buffered payload through the loader. Only available
// in sync mode; returns false when nothing is buffered or the watcher
// channel closed.
func (l *Loader) Process(ctx context.Context) bool {
	if !l.syncMode {
		return false
	}
	select {
	case raw, ok := <-l.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, LoaderChangeReceived)
		l.process(ctx, raw)
		return true
	default:
		return false
	}
}

func (l *Loader) process(ctx context.Context, raw []byte) error {
	_, err := l.tracker.Run(ctx, raw)
	if err != nil {
		l.history.push(Failure{Err: err, At: l.clock.Now()})
	}
	return err
}

// decodeAndApply is the tracked operation: one payload decoded and
// applied to the target tree.
func (l *Loader) decodeAndApply(ctx context.Context, raw []byte) (any, error) {
	var decoded any
	if err := l.codec.Unmarshal(raw, &decoded); err != nil {
		capitan.Emit(ctx, LoaderDecodeFailed,
			KeyError.Field(err.Error()),
		)
		return nil, fmt.Errorf("forms: decoding payload: %w", err)
	}

	if l.strict {
		snapshot := l.target.RawValue()
		if err := l.target.SetValue(decoded); err != nil {
			_ = l.target.SetValue(snapshot, NoEmit())
			capitan.Emit(ctx, LoaderApplyFailed,
				KeyError.Field(err.Error()),
			)
			return nil, err
		}
	} else {
		if err := l.target.PatchValue(decoded); err != nil {
			capitan.Emit(ctx, LoaderApplyFailed,
				KeyError.Field(err.Error()),
			)
			return nil, err
		}
	}

	capitan.Emit(ctx, LoaderApplied)
	return decoded, nil
}

// watch is the background loop: payloads are buffered and the latest one
// applied when the debounce window elapses.
func (l *Loader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, LoaderStopped,
			KeyStatus.Field(l.tracker.Status().String()),
		)
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					l.process(ctx, pending)
				}
				return
			}
			capitan.Emit(ctx, LoaderChangeReceived)
			pending = raw
			hasPending = true

			if timer == nil {
				timer = l.clock.NewTimer(l.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(l.debounce)
			}

		case <-timerC:
			if hasPending {
				l.process(ctx, pending)
				hasPending = false
			}
		}
	}
}
