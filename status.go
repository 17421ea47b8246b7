package forms

// Status describes the aggregate validity of a control. The four values
// are mutually exclusive; status is always derived, never assigned from
// outside the package.
type Status int32

const (
	// StatusValid indicates the control passed every validator and no
	// enabled descendant is invalid or pending.
	StatusValid Status = iota

	// StatusInvalid indicates the control's own validators produced
	// errors, or at least one enabled descendant is invalid.
	StatusInvalid

	// StatusPending indicates an asynchronous validation run is
	// outstanding on the control or on an enabled descendant.
	StatusPending

	// StatusDisabled indicates the control, and every child if it has
	// any, is disabled. Disabled controls carry no errors and are
	// excluded from composite values.
	StatusDisabled
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusPending:
		return "pending"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// UpdateOn selects when view-side interaction is applied to a control's
// value. A control without its own setting inherits the parent's, falling
// back to UpdateOnChange at the root.
type UpdateOn uint8

const (
	// updateOnUnset means the control inherits its parent's strategy.
	updateOnUnset UpdateOn = iota

	// UpdateOnChange applies every interaction immediately.
	UpdateOnChange

	// UpdateOnBlur buffers interaction until the field loses focus.
	UpdateOnBlur

	// UpdateOnSubmit buffers interaction until Submit is called on an
	// ancestor.
	UpdateOnSubmit
)

// String returns the string representation of the strategy.
func (u UpdateOn) String() string {
	switch u {
	case UpdateOnChange:
		return "change"
	case UpdateOnBlur:
		return "blur"
	case UpdateOnSubmit:
		return "submit"
	default:
		return "unset"
	}
}
