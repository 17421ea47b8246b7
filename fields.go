package forms

import "github.com/zoobzio/capitan"

// Field keys for control and loader events.
var (
	// KeyStatus is the current status of a control.
	KeyStatus = capitan.NewStringKey("status")

	// KeyOldStatus is the previous status before a transition.
	KeyOldStatus = capitan.NewStringKey("old_status")

	// KeyNewStatus is the new status after a transition.
	KeyNewStatus = capitan.NewStringKey("new_status")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyErrorKeys is the comma-joined key set of a validation error map.
	KeyErrorKeys = capitan.NewStringKey("error_keys")

	// KeyDebounce is the configured loader debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
