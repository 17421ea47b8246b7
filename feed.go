package forms

import (
	"context"
	"fmt"

	"github.com/zoobzio/streamz"
)

// Feed pipes a control's change stream through streamz channel
// processors to a handler. It decouples slow consumers from the
// synchronous stream and lets bursts of changes be throttled, buffered,
// or filtered before the handler sees them:
//
//	feed := forms.NewFeed("search", query.ValueChanges()).
//	    WithThrottle(5)
//	go feed.Run(ctx, func(v any) { search(v) })
type Feed[T any] struct {
	name     string
	source   *Stream[T]
	pipeline []streamz.Processor[T, T]
	buffer   int
}

// NewFeed builds a feed over source. The name identifies the feed in
// errors.
func NewFeed[T any](name string, source *Stream[T]) *Feed[T] {
	return &Feed[T]{
		name:   name,
		source: source,
		buffer: 16,
	}
}

// WithThrottle limits delivery to perSecond items, dropping the excess.
func (f *Feed[T]) WithThrottle(perSecond float64) *Feed[T] {
	f.pipeline = append(f.pipeline, streamz.NewThrottle[T](perSecond, streamz.RealClock))
	return f
}

// WithBuffer absorbs bursts of up to size items between the stream and
// the handler.
func (f *Feed[T]) WithBuffer(size int) *Feed[T] {
	f.pipeline = append(f.pipeline, streamz.NewBuffer[T](size))
	return f
}

// WithFilter drops items that fail the predicate before they reach the
// handler.
func (f *Feed[T]) WithFilter(predicate func(T) bool) *Feed[T] {
	f.pipeline = append(f.pipeline, streamz.NewFilter[T](predicate))
	return f
}

// WithSourceBuffer sets the bridge buffer between the synchronous stream
// and the feed. Emissions beyond a full bridge are dropped; the default
// of 16 suits handlers that keep up.
func (f *Feed[T]) WithSourceBuffer(n int) *Feed[T] {
	f.buffer = n
	return f
}

// Run subscribes to the source and delivers each surviving item to
// handler. It blocks until ctx is canceled.
func (f *Feed[T]) Run(ctx context.Context, handler func(T)) error {
	current := f.source.Channel(ctx, f.buffer)
	for _, proc := range f.pipeline {
		current = proc.Process(ctx, current)
	}

	for v := range current {
		select {
		case <-ctx.Done():
			return fmt.Errorf("forms: feed %s canceled: %w", f.name, ctx.Err())
		default:
			handler(v)
		}
	}
	return nil
}
