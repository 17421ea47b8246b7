package forms

import "sort"

// Group is a keyed composite: a map of named child controls. Its value
// is a map of enabled children's values, its validity aggregates over
// enabled children, and interaction flags derive from descendants.
type Group struct {
	abstractControl

	controls map[string]Control
	// keys preserves a deterministic child order: sorted at
	// construction, then insertion order for later additions.
	keys []string
}

// NewGroup builds a composite over the given named children. The map may
// be nil or empty; children can be added later with AddControl.
func NewGroup(controls map[string]Control, opts ...ControlOption) *Group {
	cfg := buildConfig(opts)
	g := &Group{controls: make(map[string]Control, len(controls))}
	g.init(g, cfg)
	g.tree.inOp = true
	names := make([]string, 0, len(controls))
	for name := range controls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g.registerControl(name, controls[name])
	}
	g.updateValueAndValidity(updateOpts{onlySelf: true, emit: false})
	g.tree.inOp = false
	return g
}

func (g *Group) registerControl(name string, c Control) {
	if _, exists := g.controls[name]; !exists {
		g.keys = append(g.keys, name)
	}
	g.controls[name] = c
	attachChild(g, c)
}

// AddControl registers c under name and recomputes the group. Adding
// over an existing name replaces it.
func (g *Group) AddControl(name string, c Control, opts ...Option) {
	defer g.enter()()
	if existing, ok := g.controls[name]; ok {
		detach(existing)
	}
	g.registerControl(name, c)
	g.UpdateValueAndValidity(opts...)
	g.notifyForceUpdate()
}

// RemoveControl removes the child registered under name, if any, and
// recomputes the group.
func (g *Group) RemoveControl(name string, opts ...Option) {
	defer g.enter()()
	if existing, ok := g.controls[name]; ok {
		detach(existing)
		delete(g.controls, name)
		g.removeKey(name)
	}
	g.UpdateValueAndValidity(opts...)
	g.notifyForceUpdate()
}

// SetControl replaces the child registered under name with c.
func (g *Group) SetControl(name string, c Control, opts ...Option) {
	defer g.enter()()
	if existing, ok := g.controls[name]; ok {
		detach(existing)
		delete(g.controls, name)
		g.removeKey(name)
	}
	g.registerControl(name, c)
	g.UpdateValueAndValidity(opts...)
	g.notifyForceUpdate()
}

func (g *Group) removeKey(name string) {
	for i, k := range g.keys {
		if k == name {
			g.keys = append(g.keys[:i], g.keys[i+1:]...)
			return
		}
	}
}

// Contains reports whether an enabled child is registered under name.
func (g *Group) Contains(name string) bool {
	defer g.enter()()
	c, ok := g.controls[name]
	return ok && c.Enabled()
}

// Controls returns a snapshot of the registered children.
func (g *Group) Controls() map[string]Control {
	defer g.enter()()
	out := make(map[string]Control, len(g.controls))
	for name, c := range g.controls {
		out[name] = c
	}
	return out
}

// Len returns the number of registered children, enabled or not.
func (g *Group) Len() int { defer g.enter()(); return len(g.controls) }

// SetValue strictly replaces the whole subtree's value. The payload must
// be a map[string]any covering exactly the registered children: an
// unknown key or a missing one is an error and nothing is applied.
func (g *Group) SetValue(value any, opts ...Option) error {
	defer g.enter()()
	m, ok := value.(map[string]any)
	if !ok {
		return &ValueShapeError{Want: "map[string]any", Got: value}
	}
	for name := range m {
		if _, ok := g.controls[name]; !ok {
			return &MissingControlError{Key: name}
		}
	}
	for _, name := range g.keys {
		if _, ok := m[name]; !ok {
			return &MissingValueError{Key: name}
		}
	}
	o := applyOpts(opts)
	for _, name := range g.keys {
		if err := g.controls[name].SetValue(m[name], childOpts(o)...); err != nil {
			return err
		}
	}
	g.updateValueAndValidity(o)
	return nil
}

// PatchValue applies the subset of the payload that matches registered
// children, ignoring unknown keys. A nil payload is a no-op recompute.
func (g *Group) PatchValue(value any, opts ...Option) error {
	defer g.enter()()
	o := applyOpts(opts)
	if value != nil {
		m, ok := value.(map[string]any)
		if !ok {
			return &ValueShapeError{Want: "map[string]any", Got: value}
		}
		for _, name := range g.keys {
			v, present := m[name]
			if !present {
				continue
			}
			if err := g.controls[name].PatchValue(v, childOpts(o)...); err != nil {
				return err
			}
		}
	}
	g.updateValueAndValidity(o)
	return nil
}

// Reset resets each child to its own reset target, or to the matching
// entry of value when a map is supplied, then re-derives interaction
// flags and validity.
func (g *Group) Reset(value any, opts ...Option) {
	defer g.enter()()
	o := applyOpts(opts)
	m, _ := value.(map[string]any)
	for _, name := range g.keys {
		var v any
		if m != nil {
			v = m[name]
		}
		g.controls[name].Reset(v, childOpts(o)...)
	}
	g.updatePristine(o)
	g.updateTouched(o)
	g.updateValueAndValidity(o)
}

// -----------------------------------------------------------------------------
// controlKind
// -----------------------------------------------------------------------------

func (g *Group) forEachChild(fn func(Control)) {
	for _, name := range g.keys {
		fn(g.controls[name])
	}
}

// anyControls tests every child, disabled ones included: a disabled
// descendant still counts as dirty or touched, and its status can never
// be INVALID or PENDING so status aggregation is unaffected.
func (g *Group) anyControls(pred func(Control) bool) bool {
	for _, name := range g.keys {
		if pred(g.controls[name]) {
			return true
		}
	}
	return false
}

func (g *Group) allControlsDisabled() bool {
	for _, c := range g.controls {
		if c.Enabled() {
			return false
		}
	}
	return len(g.controls) > 0 || g.Disabled()
}

// updateValue aggregates enabled children into a map. A disabled group
// reports all of its children, matching RawValue, since exclusion only
// makes sense relative to an enabled parent.
func (g *Group) updateValue() {
	out := make(map[string]any, len(g.controls))
	for _, name := range g.keys {
		c := g.controls[name]
		if c.Enabled() || g.Disabled() {
			out[name] = c.Value()
		}
	}
	g.value = out
}

func (g *Group) rawValue() any {
	out := make(map[string]any, len(g.controls))
	for _, name := range g.keys {
		out[name] = g.controls[name].RawValue()
	}
	return out
}

func (g *Group) find(key any) Control {
	name, ok := key.(string)
	if !ok {
		return nil
	}
	return g.controls[name]
}

func (g *Group) detachChild(c Control) {
	for name, candidate := range g.controls {
		if candidate == c {
			delete(g.controls, name)
			g.removeKey(name)
			return
		}
	}
}

func (g *Group) syncPendingControls() bool {
	updated := false
	g.forEachChild(func(c Control) {
		if c.base().self.syncPendingControls() {
			updated = true
		}
	})
	if updated {
		g.updateValueAndValidity(updateOpts{onlySelf: true, emit: true})
	}
	return updated
}
