package forms

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// Control is the common contract implemented by Field, Group, and Array.
// The interface is sealed: the tree is a closed sum over exactly those
// three kinds.
//
// The tree is not safe for concurrent mutation: each public operation
// must complete before the next begins. Asynchronous validators run on
// their own goroutines but never touch the tree; a settled result is
// handed back through the control's run handle and applied by the owning
// goroutine at the start of its next operation.
type Control interface {
	// Value returns the control's aggregate value. Composite values
	// include enabled children only; use RawValue to include everyone.
	Value() any
	RawValue() any
	Status() Status
	Errors() Errors
	Parent() Control
	Root() Control
	UpdateOn() UpdateOn

	Valid() bool
	Invalid() bool
	Pending() bool
	Enabled() bool
	Disabled() bool
	Pristine() bool
	Dirty() bool
	Touched() bool
	Untouched() bool

	// Validator management is pure bookkeeping: the composed validator is
	// recomputed but validation is not re-run. Call
	// UpdateValueAndValidity for the change to take effect.
	SetValidators(validators ...ValidatorFunc)
	AddValidators(validators ...ValidatorFunc)
	RemoveValidators(validators ...ValidatorFunc)
	HasValidator(v ValidatorFunc) bool
	ClearValidators()
	SetAsyncValidators(validators ...AsyncValidatorFunc)
	AddAsyncValidators(validators ...AsyncValidatorFunc)
	RemoveAsyncValidators(validators ...AsyncValidatorFunc)
	HasAsyncValidator(v AsyncValidatorFunc) bool
	ClearAsyncValidators()

	SetValue(value any, opts ...Option) error
	PatchValue(value any, opts ...Option) error
	Reset(value any, opts ...Option)

	MarkAsTouched(opts ...Option)
	MarkAsUntouched(opts ...Option)
	MarkAsDirty(opts ...Option)
	MarkAsPristine(opts ...Option)
	MarkAsPending(opts ...Option)
	Enable(opts ...Option)
	Disable(opts ...Option)
	UpdateValueAndValidity(opts ...Option)
	SetErrors(errs Errors, opts ...Option)
	Submit()

	// Get resolves a path of child keys: string segments address Group
	// children, int segments address Array children. A single dotted
	// string ("address.lines.0") is split into segments. Returns nil if
	// any segment is missing.
	Get(path ...any) Control
	GetError(code string, path ...any) any
	HasError(code string, path ...any) bool

	ValueChanges() *Stream[any]
	StatusChanges() *Stream[Status]

	// SetForceUpdate installs the binding layer's re-render hook. The
	// engine invokes the root's hook after mutations the binding layer
	// would otherwise miss; async settlement invokes it from the
	// validator goroutine, so the hook must be safe to call from another
	// goroutine.
	SetForceUpdate(fn func())

	base() *abstractControl
}

// controlKind is the kind-specific behavior behind abstractControl: child
// iteration, value aggregation, the all-disabled test, path lookup, and
// pending-interaction flushing.
type controlKind interface {
	Control
	forEachChild(fn func(Control))
	anyControls(pred func(Control) bool) bool
	allControlsDisabled() bool
	updateValue()
	rawValue() any
	find(key any) Control
	detachChild(c Control)
	syncPendingControls() bool
}

// Option adjusts how a single mutation propagates.
type Option func(*updateOpts)

type updateOpts struct {
	onlySelf bool
	emit     bool
}

// OnlySelf confines the recomputation to the receiver instead of
// propagating it to ancestors.
func OnlySelf() Option {
	return func(o *updateOpts) { o.onlySelf = true }
}

// NoEmit suppresses valueChanges and statusChanges emissions for this
// mutation.
func NoEmit() Option {
	return func(o *updateOpts) { o.emit = false }
}

func applyOpts(opts []Option) updateOpts {
	o := updateOpts{emit: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// childOpts converts o into the option set pushed onto children: the
// recursion is always self-confined, with the emit flag carried through.
func childOpts(o updateOpts) []Option {
	opts := []Option{OnlySelf()}
	if !o.emit {
		opts = append(opts, NoEmit())
	}
	return opts
}

// controlConfig holds constructor options shared by all node kinds.
type controlConfig struct {
	validators       []ValidatorFunc
	asyncValidators  []AsyncValidatorFunc
	updateOn         UpdateOn
	defaultValue     any
	hasDefault       bool
	initialAsDefault bool
}

// ControlOption configures a control at construction.
type ControlOption func(*controlConfig)

// WithValidators sets the control's synchronous validators.
func WithValidators(validators ...ValidatorFunc) ControlOption {
	return func(cfg *controlConfig) { cfg.validators = validators }
}

// WithAsyncValidators sets the control's asynchronous validators.
func WithAsyncValidators(validators ...AsyncValidatorFunc) ControlOption {
	return func(cfg *controlConfig) { cfg.asyncValidators = validators }
}

// WithUpdateOn sets the control's update strategy. Without it the control
// inherits the parent's strategy.
func WithUpdateOn(u UpdateOn) ControlOption {
	return func(cfg *controlConfig) { cfg.updateOn = u }
}

// WithDefault sets the value Reset restores when no explicit value is
// supplied. Applies to Field; composites reset children individually.
func WithDefault(v any) ControlOption {
	return func(cfg *controlConfig) {
		cfg.defaultValue = v
		cfg.hasDefault = true
	}
}

// InitialAsDefault makes Reset restore the construction-time value rather
// than a neutral empty one.
func InitialAsDefault() ControlOption {
	return func(cfg *controlConfig) { cfg.initialAsDefault = true }
}

func buildConfig(opts []ControlOption) controlConfig {
	var cfg controlConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// treeState is bookkeeping shared by every control attached to one root
// and touched only by the tree's owning goroutine. The inOp flag marks an
// in-progress public operation so nested calls (validators, stream
// subscribers, composite recursion) run directly instead of re-running
// the settlement pump.
type treeState struct {
	inOp bool
}

// adoptTree points a subtree at the state of the tree it now belongs to.
func adoptTree(c Control, t *treeState) {
	b := c.base()
	if b.tree == t {
		return
	}
	b.tree = t
	b.self.forEachChild(func(ch Control) { adoptTree(ch, t) })
}

// abstractControl is the state machine shared by the three node kinds:
// status computation, bidirectional propagation, interaction flags, and
// the async validator lifecycle.
type abstractControl struct {
	self controlKind

	tree *treeState

	value  any
	status Status
	errors Errors

	touched bool
	dirty   bool
	// selfDirty records a MarkAsDirty applied directly to this control,
	// as opposed to dirtiness forced upward by a descendant. Structural
	// recomputation preserves it; only MarkAsPristine clears it.
	selfDirty bool

	// parent and forceUpdate are atomic because a settling validator
	// goroutine walks parent links to reach the root's hook.
	parent      atomic.Pointer[abstractControl]
	forceUpdate atomic.Pointer[func()]

	updateOn UpdateOn

	rawValidators      []ValidatorFunc
	composedValidator  ValidatorFunc
	rawAsyncValidators []AsyncValidatorFunc
	composedAsync      AsyncValidatorFunc

	valueChanges  *Stream[any]
	statusChanges *Stream[Status]

	async asyncRun
}

func (b *abstractControl) init(self controlKind, cfg controlConfig) {
	b.self = self
	b.tree = &treeState{}
	b.valueChanges = newStream[any]()
	b.statusChanges = newStream[Status]()
	b.rawValidators = cfg.validators
	b.composedValidator = Compose(cfg.validators)
	b.rawAsyncValidators = cfg.asyncValidators
	b.composedAsync = ComposeAsync(cfg.asyncValidators)
	b.updateOn = cfg.updateOn
}

func (b *abstractControl) base() *abstractControl { return b }

// enter begins a public operation. The outermost call on a tree first
// applies async results handed off by validator goroutines, so settled
// state is visible before the operation reads or mutates anything; nested
// calls pass through.
func (b *abstractControl) enter() func() {
	t := b.tree
	if t.inOp {
		return func() {}
	}
	t.inOp = true
	b.rootBase().pumpSettled()
	return func() { t.inOp = false }
}

// pumpSettled applies handed-off async results bottom-up across the
// subtree.
func (b *abstractControl) pumpSettled() {
	b.self.forEachChild(func(c Control) { c.base().pumpSettled() })
	b.consumeSettled()
}

// rootBase walks atomic parent links to the top of the tree; safe from
// the validator goroutine as well as the owning one.
func (b *abstractControl) rootBase() *abstractControl {
	r := b
	for p := r.parent.Load(); p != nil; p = r.parent.Load() {
		r = p
	}
	return r
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

func (b *abstractControl) Value() any      { defer b.enter()(); return b.value }
func (b *abstractControl) RawValue() any   { defer b.enter()(); return b.self.rawValue() }
func (b *abstractControl) Status() Status  { defer b.enter()(); return b.status }
func (b *abstractControl) Errors() Errors  { defer b.enter()(); return b.errors }
func (b *abstractControl) Valid() bool     { defer b.enter()(); return b.status == StatusValid }
func (b *abstractControl) Invalid() bool   { defer b.enter()(); return b.status == StatusInvalid }
func (b *abstractControl) Pending() bool   { defer b.enter()(); return b.status == StatusPending }
func (b *abstractControl) Enabled() bool   { defer b.enter()(); return b.status != StatusDisabled }
func (b *abstractControl) Disabled() bool  { defer b.enter()(); return b.status == StatusDisabled }
func (b *abstractControl) Dirty() bool     { defer b.enter()(); return b.dirty }
func (b *abstractControl) Pristine() bool  { defer b.enter()(); return !b.dirty }
func (b *abstractControl) Touched() bool   { defer b.enter()(); return b.touched }
func (b *abstractControl) Untouched() bool { defer b.enter()(); return !b.touched }

func (b *abstractControl) Parent() Control {
	defer b.enter()()
	p := b.parent.Load()
	if p == nil {
		return nil
	}
	return p.self
}

// Root walks parent links to the top of the tree.
func (b *abstractControl) Root() Control {
	defer b.enter()()
	return b.rootBase().self
}

// UpdateOn resolves the control's update strategy, inheriting from the
// parent when unset and defaulting to on-change at the root.
func (b *abstractControl) UpdateOn() UpdateOn {
	defer b.enter()()
	if b.updateOn != updateOnUnset {
		return b.updateOn
	}
	if p := b.parent.Load(); p != nil {
		return p.UpdateOn()
	}
	return UpdateOnChange
}

func (b *abstractControl) ValueChanges() *Stream[any]     { return b.valueChanges }
func (b *abstractControl) StatusChanges() *Stream[Status] { return b.statusChanges }

// SetForceUpdate installs the binding layer's re-render hook on this
// control. The engine invokes the root's hook, possibly from a validator
// goroutine.
func (b *abstractControl) SetForceUpdate(fn func()) {
	if fn == nil {
		b.forceUpdate.Store(nil)
		return
	}
	b.forceUpdate.Store(&fn)
}

func (b *abstractControl) notifyForceUpdate() {
	if fn := b.rootBase().forceUpdate.Load(); fn != nil {
		(*fn)()
	}
}

// -----------------------------------------------------------------------------
// Validator management
// -----------------------------------------------------------------------------

// SetValidators replaces the synchronous validators. Bookkeeping only;
// call UpdateValueAndValidity to re-run validation.
func (b *abstractControl) SetValidators(validators ...ValidatorFunc) {
	defer b.enter()()
	b.rawValidators = validators
	b.composedValidator = Compose(validators)
}

// AddValidators appends validators not already present.
func (b *abstractControl) AddValidators(validators ...ValidatorFunc) {
	defer b.enter()()
	for _, v := range validators {
		if v == nil || b.hasValidator(v) {
			continue
		}
		b.rawValidators = append(b.rawValidators, v)
	}
	b.composedValidator = Compose(b.rawValidators)
}

// RemoveValidators removes every listed validator, matching by function
// identity.
func (b *abstractControl) RemoveValidators(validators ...ValidatorFunc) {
	defer b.enter()()
	kept := make([]ValidatorFunc, 0, len(b.rawValidators))
	for _, existing := range b.rawValidators {
		remove := false
		for _, v := range validators {
			if v != nil && sameFunc(existing, v) {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, existing)
		}
	}
	b.rawValidators = kept
	b.composedValidator = Compose(kept)
}

// HasValidator reports whether v is registered, matching by function
// identity.
func (b *abstractControl) HasValidator(v ValidatorFunc) bool {
	defer b.enter()()
	return b.hasValidator(v)
}

func (b *abstractControl) hasValidator(v ValidatorFunc) bool {
	if v == nil {
		return false
	}
	for _, existing := range b.rawValidators {
		if sameFunc(existing, v) {
			return true
		}
	}
	return false
}

// ClearValidators removes all synchronous validators.
func (b *abstractControl) ClearValidators() {
	defer b.enter()()
	b.rawValidators = nil
	b.composedValidator = nil
}

// SetAsyncValidators replaces the asynchronous validators.
func (b *abstractControl) SetAsyncValidators(validators ...AsyncValidatorFunc) {
	defer b.enter()()
	b.rawAsyncValidators = validators
	b.composedAsync = ComposeAsync(validators)
}

// AddAsyncValidators appends async validators not already present.
func (b *abstractControl) AddAsyncValidators(validators ...AsyncValidatorFunc) {
	defer b.enter()()
	for _, v := range validators {
		if v == nil || b.hasAsyncValidator(v) {
			continue
		}
		b.rawAsyncValidators = append(b.rawAsyncValidators, v)
	}
	b.composedAsync = ComposeAsync(b.rawAsyncValidators)
}

// RemoveAsyncValidators removes every listed async validator.
func (b *abstractControl) RemoveAsyncValidators(validators ...AsyncValidatorFunc) {
	defer b.enter()()
	kept := make([]AsyncValidatorFunc, 0, len(b.rawAsyncValidators))
	for _, existing := range b.rawAsyncValidators {
		remove := false
		for _, v := range validators {
			if v != nil && sameFunc(existing, v) {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, existing)
		}
	}
	b.rawAsyncValidators = kept
	b.composedAsync = ComposeAsync(kept)
}

// HasAsyncValidator reports whether v is registered.
func (b *abstractControl) HasAsyncValidator(v AsyncValidatorFunc) bool {
	defer b.enter()()
	return b.hasAsyncValidator(v)
}

func (b *abstractControl) hasAsyncValidator(v AsyncValidatorFunc) bool {
	if v == nil {
		return false
	}
	for _, existing := range b.rawAsyncValidators {
		if sameFunc(existing, v) {
			return true
		}
	}
	return false
}

// ClearAsyncValidators removes all asynchronous validators.
func (b *abstractControl) ClearAsyncValidators() {
	defer b.enter()()
	b.rawAsyncValidators = nil
	b.composedAsync = nil
}

// -----------------------------------------------------------------------------
// Status computation
// -----------------------------------------------------------------------------

// calculateStatus is the single derivation from enabled state, own
// errors, child statuses, and pending async work. Every recompute point
// applies it rather than patching status incrementally.
func (b *abstractControl) calculateStatus() Status {
	switch {
	case b.self.allControlsDisabled():
		return StatusDisabled
	case len(b.errors) > 0:
		return StatusInvalid
	case b.anyControlsHaveStatus(StatusInvalid):
		return StatusInvalid
	case b.async.outstanding() || b.anyControlsHaveStatus(StatusPending):
		return StatusPending
	default:
		return StatusValid
	}
}

func (b *abstractControl) anyControlsHaveStatus(status Status) bool {
	return b.self.anyControls(func(c Control) bool { return c.Status() == status })
}

// transitionStatus stores the new status and signals the transition.
func (b *abstractControl) transitionStatus(next Status) {
	if b.status == next {
		return
	}
	old := b.status
	b.status = next
	capitan.Emit(context.Background(), ControlStatusChanged,
		KeyOldStatus.Field(old.String()),
		KeyNewStatus.Field(next.String()),
	)
}

func (b *abstractControl) setInitialStatus() {
	if b.self.allControlsDisabled() {
		b.transitionStatus(StatusDisabled)
	} else {
		b.transitionStatus(StatusValid)
	}
}

// -----------------------------------------------------------------------------
// Recompute
// -----------------------------------------------------------------------------

// UpdateValueAndValidity recomputes the control's value, errors, and
// status, then repeats the procedure on each ancestor unless OnlySelf is
// given. Emissions for one recompute are value-then-status, and a child's
// subscribers are notified before its parent recomputes.
func (b *abstractControl) UpdateValueAndValidity(opts ...Option) {
	defer b.enter()()
	b.updateValueAndValidity(applyOpts(opts))
}

func (b *abstractControl) updateValueAndValidity(o updateOpts) {
	b.setInitialStatus()
	b.self.updateValue()
	if b.Enabled() {
		b.cancelAsyncValidation()
		b.errors = b.runValidator()
		b.transitionStatus(b.calculateStatus())
		if b.status == StatusValid || b.status == StatusPending {
			b.runAsyncValidator(o.emit)
		}
	} else {
		// Landing on DISABLED transitively clears computed errors the
		// same way an explicit Disable does.
		b.cancelAsyncValidation()
		b.errors = nil
	}
	if o.emit {
		b.valueChanges.emit(b.value)
		b.statusChanges.emit(b.status)
	}
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.updateValueAndValidity(o)
	}
}

func (b *abstractControl) runValidator() Errors {
	if b.composedValidator == nil {
		return nil
	}
	return b.composedValidator(b.self)
}

// SetErrors overrides the control's errors out of band, bypassing the
// synchronous validator run, and recomputes status up the ancestor chain
// (status only, no value recompute).
func (b *abstractControl) SetErrors(errs Errors, opts ...Option) {
	defer b.enter()()
	o := applyOpts(opts)
	if len(errs) == 0 {
		errs = nil
	}
	b.errors = errs
	capitan.Emit(context.Background(), ControlErrorsSet,
		KeyErrorKeys.Field(errorKeys(errs)),
	)
	b.updateControlsErrors(o.emit)
}

func (b *abstractControl) updateControlsErrors(emit bool) {
	b.transitionStatus(b.calculateStatus())
	if emit {
		b.statusChanges.emit(b.status)
	}
	if p := b.parent.Load(); p != nil {
		p.updateControlsErrors(emit)
	}
}

func errorKeys(errs Errors) string {
	if len(errs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	return strings.Join(keys, ",")
}

// -----------------------------------------------------------------------------
// Enable / disable
// -----------------------------------------------------------------------------

// Disable marks the control and every descendant disabled, clears
// computed errors, and cancels outstanding async validation. Ancestors
// recompute value, validity, and interaction flags unless OnlySelf is
// given.
func (b *abstractControl) Disable(opts ...Option) {
	defer b.enter()()
	o := applyOpts(opts)
	b.cancelAsyncValidation()
	b.transitionStatus(StatusDisabled)
	b.errors = nil
	b.self.forEachChild(func(c Control) {
		c.Disable(childOpts(o)...)
	})
	b.self.updateValue()
	if o.emit {
		b.valueChanges.emit(b.value)
		b.statusChanges.emit(b.status)
	}
	b.updateAncestors(o)
	capitan.Emit(context.Background(), ControlDisabled)
	b.notifyForceUpdate()
}

// Enable re-enables the control and every descendant, then recomputes
// value and validity from scratch.
func (b *abstractControl) Enable(opts ...Option) {
	defer b.enter()()
	o := applyOpts(opts)
	b.transitionStatus(StatusValid)
	b.self.forEachChild(func(c Control) {
		c.Enable(childOpts(o)...)
	})
	b.updateValueAndValidity(updateOpts{onlySelf: true, emit: o.emit})
	b.updateAncestors(o)
	capitan.Emit(context.Background(), ControlEnabled)
	b.notifyForceUpdate()
}

func (b *abstractControl) updateAncestors(o updateOpts) {
	p := b.parent.Load()
	if p == nil || o.onlySelf {
		return
	}
	p.updateValueAndValidity(o)
	p.updatePristine(o)
	p.updateTouched(o)
}

// -----------------------------------------------------------------------------
// Interaction flags
// -----------------------------------------------------------------------------

// MarkAsTouched marks the control touched and forces the ancestor chain
// touched unless OnlySelf is given.
func (b *abstractControl) MarkAsTouched(opts ...Option) {
	defer b.enter()()
	capitan.Emit(context.Background(), ControlMarkedTouched)
	b.markAsTouched(applyOpts(opts))
}

func (b *abstractControl) markAsTouched(o updateOpts) {
	b.touched = true
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.markAsTouched(o)
	}
}

// MarkAsUntouched clears the touched flag on the control and every
// descendant, then re-derives each ancestor's flag structurally.
func (b *abstractControl) MarkAsUntouched(opts ...Option) {
	defer b.enter()()
	capitan.Emit(context.Background(), ControlMarkedUntouched)
	o := applyOpts(opts)
	b.touched = false
	b.self.forEachChild(func(c Control) {
		c.MarkAsUntouched(OnlySelf())
	})
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.updateTouched(o)
	}
}

// MarkAsDirty marks the control dirty and forces the ancestor chain dirty
// unless OnlySelf is given. A mark applied directly to a control is
// protected: structural recomputation never clears it, only
// MarkAsPristine does.
func (b *abstractControl) MarkAsDirty(opts ...Option) {
	defer b.enter()()
	capitan.Emit(context.Background(), ControlMarkedDirty)
	b.selfDirty = true
	b.markDirtyUp(applyOpts(opts))
}

func (b *abstractControl) markDirtyUp(o updateOpts) {
	b.dirty = true
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.markDirtyUp(o)
	}
}

// MarkAsPristine clears the dirty flag on the control and every
// descendant, then re-derives each ancestor's flag structurally.
func (b *abstractControl) MarkAsPristine(opts ...Option) {
	defer b.enter()()
	capitan.Emit(context.Background(), ControlMarkedPristine)
	o := applyOpts(opts)
	b.dirty = false
	b.selfDirty = false
	b.self.forEachChild(func(c Control) {
		c.MarkAsPristine(OnlySelf())
	})
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.updatePristine(o)
	}
}

// MarkAsPending moves the control to PENDING, emitting on statusChanges
// unless suppressed, and propagates upward unless OnlySelf is given.
func (b *abstractControl) MarkAsPending(opts ...Option) {
	defer b.enter()()
	o := applyOpts(opts)
	b.transitionStatus(StatusPending)
	if o.emit {
		b.statusChanges.emit(b.status)
	}
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.MarkAsPending(opts...)
	}
}

func (b *abstractControl) anyControlsDirty() bool {
	return b.self.anyControls(func(c Control) bool { return c.Dirty() })
}

func (b *abstractControl) anyControlsTouched() bool {
	return b.self.anyControls(func(c Control) bool { return c.Touched() })
}

// updatePristine re-derives the dirty flag from descendants, preserving a
// directly applied mark.
func (b *abstractControl) updatePristine(o updateOpts) {
	b.dirty = b.selfDirty || b.anyControlsDirty()
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.updatePristine(o)
	}
}

func (b *abstractControl) updateTouched(o updateOpts) {
	b.touched = b.anyControlsTouched()
	if p := b.parent.Load(); p != nil && !o.onlySelf {
		p.updateTouched(o)
	}
}

// Submit flushes pending on-submit interaction throughout the subtree.
// The binding layer calls this from its submit handler.
func (b *abstractControl) Submit() {
	defer b.enter()()
	b.self.syncPendingControls()
}

// -----------------------------------------------------------------------------
// Path resolution
// -----------------------------------------------------------------------------

// Get resolves a path through descendant composites; see Control.Get.
func (b *abstractControl) Get(path ...any) Control {
	defer b.enter()()
	return b.get(path)
}

func (b *abstractControl) get(path []any) Control {
	segments := normalizePath(path)
	if len(segments) == 0 {
		return nil
	}
	var current Control = b.self
	for _, segment := range segments {
		if current == nil {
			return nil
		}
		current = current.base().self.find(segment)
	}
	return current
}

// GetError returns the error detail recorded under code at this control,
// or at the control resolved by path. Returns nil when the path does not
// resolve or the code is absent.
func (b *abstractControl) GetError(code string, path ...any) any {
	defer b.enter()()
	target := b
	if len(path) > 0 {
		c := b.get(path)
		if c == nil {
			return nil
		}
		target = c.base()
	}
	if target.errors == nil {
		return nil
	}
	return target.errors[code]
}

// HasError reports whether an error is recorded under code at this
// control or at the control resolved by path.
func (b *abstractControl) HasError(code string, path ...any) bool {
	defer b.enter()()
	target := b
	if len(path) > 0 {
		c := b.get(path)
		if c == nil {
			return false
		}
		target = c.base()
	}
	if target.errors == nil {
		return false
	}
	_, ok := target.errors[code]
	return ok
}

func normalizePath(path []any) []any {
	if len(path) == 1 {
		if s, ok := path[0].(string); ok && strings.Contains(s, ".") {
			parts := strings.Split(s, ".")
			out := make([]any, 0, len(parts))
			for _, p := range parts {
				if n, err := strconv.Atoi(p); err == nil {
					out = append(out, n)
				} else {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return path
}

// -----------------------------------------------------------------------------
// Attachment
// -----------------------------------------------------------------------------

// attachChild wires the parent back-reference, detaching the child from
// any prior parent first. A child has exactly one parent, and its subtree
// joins the parent's tree state.
func attachChild(parent Control, child Control) {
	pb, cb := parent.base(), child.base()
	if prior := cb.parent.Load(); prior != nil && prior != pb {
		prior.self.detachChild(child)
	}
	cb.parent.Store(pb)
	adoptTree(child, pb.tree)
}

// detach clears the parent back-reference and cancels outstanding async
// validation so a detached node cannot emit into its former tree. The
// detached subtree becomes its own tree.
func detach(child Control) {
	b := child.base()
	b.cancelAsyncValidation()
	b.parent.Store(nil)
	adoptTree(child, &treeState{})
}
