package forms

import "fmt"

// Errors maps a validation error key to its detail. A nil or empty map
// means the control's own validators found nothing wrong; a composite can
// still be invalid through a child. Validation outcomes are data, never
// Go errors.
type Errors map[string]any

// MissingControlError reports a value keyed to a child that is not
// registered on the composite.
type MissingControlError struct {
	Key string
}

func (e *MissingControlError) Error() string {
	return fmt.Sprintf("forms: no control registered with key %q", e.Key)
}

// MissingValueError reports a strict SetValue whose payload omits a
// registered child.
type MissingValueError struct {
	Key string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("forms: must supply a value for control with key %q", e.Key)
}

// LengthMismatchError reports an array payload whose length does not match
// the child count.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("forms: value length %d does not match control count %d", e.Got, e.Want)
}

// ValueShapeError reports a payload whose Go type cannot address the
// composite's children.
type ValueShapeError struct {
	Want string
	Got  any
}

func (e *ValueShapeError) Error() string {
	return fmt.Sprintf("forms: expected %s, got %T", e.Want, e.Got)
}
