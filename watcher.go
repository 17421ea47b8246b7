package forms

import "context"

// Watcher observes an external source of form data and emits raw
// payloads on a channel. The Loader decodes each payload and applies it
// to a control tree.
//
// Implementations must emit the current payload immediately when Watch
// is called so the tree can be seeded before the first change arrives.
type Watcher interface {
	// Watch begins observing the source. The returned channel emits a
	// raw payload per change and is closed when ctx is canceled or the
	// source fails unrecoverably.
	Watch(ctx context.Context) (<-chan []byte, error)
}
