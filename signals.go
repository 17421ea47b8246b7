package forms

import "github.com/zoobzio/capitan"

// Control lifecycle signals.
var (
	// ControlStatusChanged is emitted when a control transitions between
	// statuses.
	ControlStatusChanged = capitan.NewSignal(
		"forms.control.status.changed",
		"Control status transition",
	)

	// ControlEnabled is emitted when a control is enabled.
	ControlEnabled = capitan.NewSignal(
		"forms.control.enabled",
		"Control enabled",
	)

	// ControlDisabled is emitted when a control is disabled.
	ControlDisabled = capitan.NewSignal(
		"forms.control.disabled",
		"Control disabled",
	)

	// ControlErrorsSet is emitted when errors are applied out of band via
	// SetErrors.
	ControlErrorsSet = capitan.NewSignal(
		"forms.control.errors.set",
		"Errors applied out of band",
	)
)

// Interaction state signals.
var (
	// ControlMarkedDirty is emitted on each MarkAsDirty call.
	ControlMarkedDirty = capitan.NewSignal(
		"forms.control.marked.dirty",
		"Control marked dirty",
	)

	// ControlMarkedPristine is emitted on each MarkAsPristine call.
	ControlMarkedPristine = capitan.NewSignal(
		"forms.control.marked.pristine",
		"Control marked pristine",
	)

	// ControlMarkedTouched is emitted on each MarkAsTouched call.
	ControlMarkedTouched = capitan.NewSignal(
		"forms.control.marked.touched",
		"Control marked touched",
	)

	// ControlMarkedUntouched is emitted on each MarkAsUntouched call.
	ControlMarkedUntouched = capitan.NewSignal(
		"forms.control.marked.untouched",
		"Control marked untouched",
	)
)

// Async validation signals.
var (
	// AsyncValidationStarted is emitted when a control subscribes to its
	// async validator.
	AsyncValidationStarted = capitan.NewSignal(
		"forms.async.started",
		"Async validation run started",
	)

	// AsyncValidationSettled is emitted when an async validation result
	// is applied.
	AsyncValidationSettled = capitan.NewSignal(
		"forms.async.settled",
		"Async validation run settled",
	)

	// AsyncValidationCanceled is emitted when an outstanding async
	// validation run is canceled before settling.
	AsyncValidationCanceled = capitan.NewSignal(
		"forms.async.canceled",
		"Async validation run canceled",
	)
)

// Loader signals.
var (
	// LoaderStarted is emitted when a Loader begins watching.
	LoaderStarted = capitan.NewSignal(
		"forms.loader.started",
		"Loader watching started",
	)

	// LoaderStopped is emitted when a Loader stops watching.
	LoaderStopped = capitan.NewSignal(
		"forms.loader.stopped",
		"Loader watching stopped",
	)

	// LoaderChangeReceived is emitted when raw data arrives from the
	// watcher.
	LoaderChangeReceived = capitan.NewSignal(
		"forms.loader.change.received",
		"Raw change received from watcher",
	)

	// LoaderDecodeFailed is emitted when the payload cannot be decoded.
	LoaderDecodeFailed = capitan.NewSignal(
		"forms.loader.decode.failed",
		"Payload decode failed",
	)

	// LoaderApplyFailed is emitted when the decoded payload cannot be
	// applied to the target tree.
	LoaderApplyFailed = capitan.NewSignal(
		"forms.loader.apply.failed",
		"Payload apply failed",
	)

	// LoaderApplied is emitted when a payload is successfully applied.
	LoaderApplied = capitan.NewSignal(
		"forms.loader.applied",
		"Payload applied to target",
	)
)

// Tracker signals.
var (
	// TrackerStatusChanged is emitted when a Tracker transitions between
	// operation statuses.
	TrackerStatusChanged = capitan.NewSignal(
		"forms.tracker.status.changed",
		"Tracked operation status transition",
	)
)
