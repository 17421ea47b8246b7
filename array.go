package forms

import "strconv"

// Array is an indexed composite: an ordered slice of child controls. Its
// value is a slice of enabled children's values and its length changes
// dynamically through Push, Insert, and RemoveAt.
type Array struct {
	abstractControl

	controls []Control
}

// NewArray builds a composite over the given children in order. The
// slice may be nil or empty.
func NewArray(controls []Control, opts ...ControlOption) *Array {
	cfg := buildConfig(opts)
	a := &Array{}
	a.init(a, cfg)
	a.tree.inOp = true
	for _, c := range controls {
		a.controls = append(a.controls, c)
		attachChild(a, c)
	}
	a.updateValueAndValidity(updateOpts{onlySelf: true, emit: false})
	a.tree.inOp = false
	return a
}

// Len returns the number of children, enabled or not.
func (a *Array) Len() int { defer a.enter()(); return len(a.controls) }

// At returns the child at index i, counting from the end when i is
// negative. Returns nil when the index is out of range.
func (a *Array) At(i int) Control {
	defer a.enter()()
	i = a.adjustIndex(i)
	if i < 0 || i >= len(a.controls) {
		return nil
	}
	return a.controls[i]
}

// Controls returns a snapshot of the children in order.
func (a *Array) Controls() []Control {
	defer a.enter()()
	out := make([]Control, len(a.controls))
	copy(out, a.controls)
	return out
}

// Push appends c and recomputes the array.
func (a *Array) Push(c Control, opts ...Option) {
	defer a.enter()()
	a.controls = append(a.controls, c)
	attachChild(a, c)
	a.UpdateValueAndValidity(opts...)
	a.notifyForceUpdate()
}

// Insert places c at index i, shifting later children right. The index
// is clamped to the valid range; negative indexes count from the end.
func (a *Array) Insert(i int, c Control, opts ...Option) {
	defer a.enter()()
	i = a.adjustIndex(i)
	if i < 0 {
		i = 0
	}
	if i > len(a.controls) {
		i = len(a.controls)
	}
	a.controls = append(a.controls, nil)
	copy(a.controls[i+1:], a.controls[i:])
	a.controls[i] = c
	attachChild(a, c)
	a.UpdateValueAndValidity(opts...)
	a.notifyForceUpdate()
}

// RemoveAt removes the child at index i, shifting later children left.
// An out-of-range index is a no-op recompute.
func (a *Array) RemoveAt(i int, opts ...Option) {
	defer a.enter()()
	i = a.adjustIndex(i)
	if i >= 0 && i < len(a.controls) {
		detach(a.controls[i])
		a.controls = append(a.controls[:i], a.controls[i+1:]...)
	}
	a.UpdateValueAndValidity(opts...)
	a.notifyForceUpdate()
}

// SetControl replaces the child at index i with c. An out-of-range index
// appends instead.
func (a *Array) SetControl(i int, c Control, opts ...Option) {
	defer a.enter()()
	i = a.adjustIndex(i)
	if i >= 0 && i < len(a.controls) {
		detach(a.controls[i])
		a.controls[i] = c
		attachChild(a, c)
	} else {
		a.controls = append(a.controls, c)
		attachChild(a, c)
	}
	a.UpdateValueAndValidity(opts...)
	a.notifyForceUpdate()
}

// Clear removes every child in one recompute.
func (a *Array) Clear(opts ...Option) {
	defer a.enter()()
	for _, c := range a.controls {
		detach(c)
	}
	a.controls = nil
	a.UpdateValueAndValidity(opts...)
	a.notifyForceUpdate()
}

func (a *Array) adjustIndex(i int) int {
	if i < 0 {
		return i + len(a.controls)
	}
	return i
}

// SetValue strictly replaces the whole subtree's value. The payload must
// be a []any whose length matches the child count exactly.
func (a *Array) SetValue(value any, opts ...Option) error {
	defer a.enter()()
	vs, ok := value.([]any)
	if !ok {
		return &ValueShapeError{Want: "[]any", Got: value}
	}
	if len(vs) != len(a.controls) {
		return &LengthMismatchError{Want: len(a.controls), Got: len(vs)}
	}
	o := applyOpts(opts)
	for i, v := range vs {
		if err := a.controls[i].SetValue(v, childOpts(o)...); err != nil {
			return err
		}
	}
	a.updateValueAndValidity(o)
	return nil
}

// PatchValue applies as much of the payload as there are children,
// ignoring surplus entries. A nil payload is a no-op recompute.
func (a *Array) PatchValue(value any, opts ...Option) error {
	defer a.enter()()
	o := applyOpts(opts)
	if value != nil {
		vs, ok := value.([]any)
		if !ok {
			return &ValueShapeError{Want: "[]any", Got: value}
		}
		for i, v := range vs {
			if i >= len(a.controls) {
				break
			}
			if err := a.controls[i].PatchValue(v, childOpts(o)...); err != nil {
				return err
			}
		}
	}
	a.updateValueAndValidity(o)
	return nil
}

// Reset resets each child to its own reset target, or to the positional
// entry of value when a slice is supplied, then re-derives interaction
// flags and validity.
func (a *Array) Reset(value any, opts ...Option) {
	defer a.enter()()
	o := applyOpts(opts)
	vs, _ := value.([]any)
	for i, c := range a.controls {
		var v any
		if i < len(vs) {
			v = vs[i]
		}
		c.Reset(v, childOpts(o)...)
	}
	a.updatePristine(o)
	a.updateTouched(o)
	a.updateValueAndValidity(o)
}

// -----------------------------------------------------------------------------
// controlKind
// -----------------------------------------------------------------------------

func (a *Array) forEachChild(fn func(Control)) {
	for _, c := range a.controls {
		fn(c)
	}
}

// anyControls tests every child, disabled ones included, matching Group.
func (a *Array) anyControls(pred func(Control) bool) bool {
	for _, c := range a.controls {
		if pred(c) {
			return true
		}
	}
	return false
}

func (a *Array) allControlsDisabled() bool {
	for _, c := range a.controls {
		if c.Enabled() {
			return false
		}
	}
	return len(a.controls) > 0 || a.Disabled()
}

func (a *Array) updateValue() {
	out := make([]any, 0, len(a.controls))
	for _, c := range a.controls {
		if c.Enabled() || a.Disabled() {
			out = append(out, c.Value())
		}
	}
	a.value = out
}

func (a *Array) rawValue() any {
	out := make([]any, len(a.controls))
	for i, c := range a.controls {
		out[i] = c.RawValue()
	}
	return out
}

func (a *Array) find(key any) Control {
	switch k := key.(type) {
	case int:
		return a.At(k)
	case string:
		if n, err := strconv.Atoi(k); err == nil {
			return a.At(n)
		}
	}
	return nil
}

func (a *Array) detachChild(c Control) {
	for i, candidate := range a.controls {
		if candidate == c {
			a.controls = append(a.controls[:i], a.controls[i+1:]...)
			return
		}
	}
}

func (a *Array) syncPendingControls() bool {
	updated := false
	for _, c := range a.controls {
		if c.base().self.syncPendingControls() {
			updated = true
		}
	}
	if updated {
		a.updateValueAndValidity(updateOpts{onlySelf: true, emit: true})
	}
	return updated
}
