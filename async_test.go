package forms

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

// gatedValidator blocks each run on a per-value channel so tests control
// exactly when a run settles. Runs ignore cancellation unless honorCtx is
// set, which lets tests exercise both discard paths.
type gatedValidator struct {
	gates    map[string]chan Errors
	honorCtx bool
}

func newGatedValidator(honorCtx bool, values ...string) *gatedValidator {
	g := &gatedValidator{gates: make(map[string]chan Errors), honorCtx: honorCtx}
	for _, v := range values {
		g.gates[v] = make(chan Errors, 1)
	}
	return g
}

func (g *gatedValidator) fn(ctx context.Context, value any) (Errors, error) {
	gate := g.gates[value.(string)]
	if g.honorCtx {
		select {
		case errs := <-gate:
			return errs, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return <-gate, nil
}

// settleSignal installs a root force-update hook that fires when an
// async run hands its result off.
func settleSignal(c Control) chan struct{} {
	settled := make(chan struct{}, 8)
	c.SetForceUpdate(func() { settled <- struct{}{} })
	return settled
}

func waitSettle(t *testing.T, settled chan struct{}) {
	t.Helper()
	select {
	case <-settled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async settlement")
	}
}

func TestAsync_PendingUntilSettled(t *testing.T) {
	gv := newGatedValidator(true, "a")
	f := NewField("a", WithAsyncValidators(gv.fn))
	settled := settleSignal(f)

	if !f.Pending() {
		t.Fatalf("expected pending, got %s", f.Status())
	}

	gv.gates["a"] <- nil
	waitSettle(t, settled)

	if !f.Valid() {
		t.Errorf("expected valid after settle, got %s", f.Status())
	}
}

func TestAsync_SettleWithErrors(t *testing.T) {
	gv := newGatedValidator(true, "taken")
	f := NewField("taken", WithAsyncValidators(gv.fn))
	settled := settleSignal(f)

	gv.gates["taken"] <- Errors{"unique": false}
	waitSettle(t, settled)

	if !f.Invalid() {
		t.Errorf("expected invalid, got %s", f.Status())
	}
	if !f.HasError("unique") {
		t.Errorf("expected unique error, got %v", f.Errors())
	}
}

func TestAsync_SkippedWhenSyncFails(t *testing.T) {
	started := make(chan struct{}, 1)
	f := NewField("",
		WithValidators(Required),
		WithAsyncValidators(func(ctx context.Context, value any) (Errors, error) {
			started <- struct{}{}
			return nil, nil
		}),
	)

	select {
	case <-started:
		t.Error("async validator must not run while sync validation fails")
	case <-time.After(50 * time.Millisecond):
	}
	if !f.Invalid() {
		t.Errorf("expected invalid, got %s", f.Status())
	}
}

func TestAsync_StaleResultDiscarded(t *testing.T) {
	gv := newGatedValidator(false, "first", "second")
	f := NewField("first", WithAsyncValidators(gv.fn))
	settled := settleSignal(f)

	// Supersede the first run before it settles.
	f.SetValue("second")

	gv.gates["second"] <- nil
	waitSettle(t, settled)
	if !f.Valid() {
		t.Fatalf("expected valid, got %s", f.Status())
	}

	// The first run settles late; its result must vanish.
	gv.gates["first"] <- Errors{"stale": true}
	time.Sleep(50 * time.Millisecond)

	if !f.Valid() {
		t.Errorf("stale result must be discarded, got %s", f.Status())
	}
	if f.Errors() != nil {
		t.Errorf("stale errors leaked: %v", f.Errors())
	}
}

func TestAsync_DisableCancelsRun(t *testing.T) {
	canceled := make(chan struct{})
	f := NewField("x", WithAsyncValidators(
		func(ctx context.Context, value any) (Errors, error) {
			<-ctx.Done()
			close(canceled)
			return nil, ctx.Err()
		},
	))

	if !f.Pending() {
		t.Fatalf("expected pending, got %s", f.Status())
	}

	f.Disable()

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("disable must cancel the outstanding run")
	}
	if !f.Disabled() {
		t.Errorf("expected disabled, got %s", f.Status())
	}
}

func TestAsync_PendingPropagatesToAncestors(t *testing.T) {
	gv := newGatedValidator(true, "v")
	child := NewField("v", WithAsyncValidators(gv.fn))
	form := NewGroup(map[string]Control{"c": child})
	settled := settleSignal(form)

	if !form.Pending() {
		t.Fatalf("expected pending root, got %s", form.Status())
	}

	gv.gates["v"] <- nil
	waitSettle(t, settled)

	if !child.Valid() {
		t.Fatalf("expected valid child, got %s", child.Status())
	}

	// Settlement recomputes ancestor status through the errors chain.
	if !form.Valid() {
		t.Errorf("expected valid root after settle, got %s", form.Status())
	}
}

func TestAsync_ValidatorErrorFoldsIntoErrors(t *testing.T) {
	release := make(chan struct{})
	f := NewField("x", WithAsyncValidators(
		func(ctx context.Context, value any) (Errors, error) {
			<-release
			return nil, errors.New("service unreachable")
		},
	))
	settled := settleSignal(f)
	close(release)
	waitSettle(t, settled)

	if !f.Invalid() {
		t.Errorf("expected invalid, got %s", f.Status())
	}
	if f.GetError("async") != "service unreachable" {
		t.Errorf("expected folded failure, got %v", f.Errors())
	}
}

func TestAsync_StatusEmissionsAroundRun(t *testing.T) {
	gv := newGatedValidator(true, "a", "b")
	f := NewField("a", WithAsyncValidators(gv.fn))
	settled := settleSignal(f)
	gv.gates["a"] <- nil
	waitSettle(t, settled)
	if !f.Valid() {
		t.Fatalf("expected valid before observing, got %s", f.Status())
	}

	var statuses []Status
	f.StatusChanges().Subscribe(func(s Status) { statuses = append(statuses, s) })

	f.SetValue("b")
	if len(statuses) != 1 || statuses[0] != StatusPending {
		t.Fatalf("expected [pending], got %v", statuses)
	}

	gv.gates["b"] <- nil
	waitSettle(t, settled)
	if !f.Valid() {
		t.Fatalf("expected valid after settle, got %s", f.Status())
	}

	if len(statuses) != 2 || statuses[1] != StatusValid {
		t.Errorf("expected [pending valid], got %v", statuses)
	}
}

func TestAsync_SettlementWhileOwnerBusy(t *testing.T) {
	f := NewField("0", WithAsyncValidators(
		func(ctx context.Context, value any) (Errors, error) {
			time.Sleep(time.Millisecond)
			return nil, nil
		},
	))

	// Runs settle concurrently with the owner's own mutations and
	// reads; results are handed off and applied here, never written
	// from the validator goroutine.
	for i := 1; i <= 100; i++ {
		f.SetValue(strconv.Itoa(i))
		f.Errors()
		f.Status()
	}
}

func TestAsync_DelayWithFakeClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	f := NewField("x", WithAsyncValidators(
		Delay(clock, 100*time.Millisecond, Errors{"slow": true}),
	))
	settled := settleSignal(f)

	if !f.Pending() {
		t.Fatalf("expected pending, got %s", f.Status())
	}

	// Let the validator goroutine register its timer before advancing.
	time.Sleep(10 * time.Millisecond)
	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()
	waitSettle(t, settled)

	if !f.HasError("slow") {
		t.Errorf("expected slow error, got %v", f.Errors())
	}
}
