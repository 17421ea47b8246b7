package forms

// Field is the leaf control: it holds a single value and has no
// children. A field buffers view-side interaction according to its
// update strategy and flushes the buffer on change, blur, or submit.
type Field struct {
	abstractControl

	defaultValue any

	// View-side interaction buffered while the update strategy defers
	// application.
	pendingValue   any
	pendingChange  bool
	pendingDirty   bool
	pendingTouched bool

	// onChange callbacks push model-side value changes back to the
	// binding layer. View-originated changes skip them.
	onChange []func(any)
}

// NewField builds a leaf control holding value. The zero configuration
// is an always-valid on-change field whose Reset target is nil; use
// WithDefault or InitialAsDefault to change the reset target.
func NewField(value any, opts ...ControlOption) *Field {
	cfg := buildConfig(opts)
	f := &Field{pendingValue: value}
	f.init(f, cfg)
	f.tree.inOp = true
	switch {
	case cfg.hasDefault:
		f.defaultValue = cfg.defaultValue
	case cfg.initialAsDefault:
		f.defaultValue = value
	}
	f.value = value
	f.updateValueAndValidity(updateOpts{onlySelf: true, emit: false})
	f.tree.inOp = false
	return f
}

// SetValue replaces the field's value and recomputes validity. The error
// return exists for interface symmetry with composites; a field accepts
// any value.
func (f *Field) SetValue(value any, opts ...Option) error {
	defer f.enter()()
	f.setValueInternal(value, applyOpts(opts), true)
	return nil
}

// PatchValue is equivalent to SetValue on a leaf.
func (f *Field) PatchValue(value any, opts ...Option) error {
	return f.SetValue(value, opts...)
}

func (f *Field) setValueInternal(value any, o updateOpts, notifyView bool) {
	f.value = value
	if notifyView {
		for _, fn := range f.onChange {
			fn(value)
		}
	}
	f.updateValueAndValidity(o)
}

// Reset restores the field to its reset target, or to value when one is
// given, clearing dirty and touched state and any buffered interaction.
func (f *Field) Reset(value any, opts ...Option) {
	defer f.enter()()
	if value == nil {
		value = f.defaultValue
	}
	f.MarkAsPristine(opts...)
	f.MarkAsUntouched(opts...)
	f.SetValue(value, opts...)
	f.pendingChange = false
}

// RegisterOnChange adds a callback invoked whenever the value changes
// from the model side. The binding layer uses it to push values into the
// view.
func (f *Field) RegisterOnChange(fn func(any)) {
	defer f.enter()()
	f.onChange = append(f.onChange, fn)
}

// Input records a view-side value change. On-change fields apply it
// immediately; blur and submit fields buffer it until their flush point.
func (f *Field) Input(value any) {
	defer f.enter()()
	f.pendingValue = value
	f.pendingChange = true
	f.pendingDirty = true
	if f.UpdateOn() == UpdateOnChange {
		f.applyPending()
	}
}

// Blur records that the field lost focus, flushing a buffered change on
// blur-strategy fields. Submit-strategy fields defer the touched mark to
// Submit as well.
func (f *Field) Blur() {
	defer f.enter()()
	f.pendingTouched = true
	if f.UpdateOn() == UpdateOnBlur && f.pendingChange {
		f.applyPending()
	}
	if f.UpdateOn() != UpdateOnSubmit {
		f.MarkAsTouched()
	}
}

func (f *Field) applyPending() {
	if f.pendingDirty {
		f.MarkAsDirty()
	}
	f.setValueInternal(f.pendingValue, updateOpts{emit: true}, false)
	f.pendingChange = false
}

// MarkAsPristine additionally discards buffered dirtiness.
func (f *Field) MarkAsPristine(opts ...Option) {
	defer f.enter()()
	f.pendingDirty = false
	f.abstractControl.MarkAsPristine(opts...)
}

// MarkAsUntouched additionally discards buffered touch state.
func (f *Field) MarkAsUntouched(opts ...Option) {
	defer f.enter()()
	f.pendingTouched = false
	f.abstractControl.MarkAsUntouched(opts...)
}

// -----------------------------------------------------------------------------
// controlKind
// -----------------------------------------------------------------------------

func (f *Field) forEachChild(func(Control))          {}
func (f *Field) anyControls(func(Control) bool) bool { return false }
func (f *Field) allControlsDisabled() bool           { return f.Disabled() }
func (f *Field) updateValue()                        {}
func (f *Field) rawValue() any                       { return f.value }
func (f *Field) find(key any) Control                { return nil }
func (f *Field) detachChild(Control)                 {}

func (f *Field) syncPendingControls() bool {
	if f.UpdateOn() != UpdateOnSubmit {
		return false
	}
	if f.pendingDirty {
		f.MarkAsDirty()
	}
	if f.pendingTouched {
		f.MarkAsTouched()
	}
	if f.pendingChange {
		f.setValueInternal(f.pendingValue, updateOpts{emit: true}, false)
		f.pendingChange = false
		return true
	}
	return false
}
