package forms

import (
	"context"
	"sync"
)

// Stream is a synchronous multicast channel used for a control's
// valueChanges and statusChanges. Any number of independent subscribers
// may listen; emission happens on the mutating goroutine, in subscriber
// registration order. Subscribing or unsubscribing during dispatch does
// not affect the in-flight emission.
type Stream[T any] struct {
	mu   sync.Mutex
	subs []*streamSub[T]
}

type streamSub[T any] struct {
	stream *Stream[T]
	fn     func(T)
}

// Subscription detaches a subscriber from a Stream. Consumers own their
// subscriptions; nothing is cleaned up implicitly.
type Subscription interface {
	Unsubscribe()
}

func newStream[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Subscribe registers fn to receive every subsequent emission.
func (s *Stream[T]) Subscribe(fn func(T)) Subscription {
	sub := &streamSub[T]{stream: s, fn: fn}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// emit dispatches v to a snapshot of the current subscribers.
func (s *Stream[T]) emit(v T) {
	s.mu.Lock()
	snapshot := make([]*streamSub[T], len(s.subs))
	copy(snapshot, s.subs)
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(v)
	}
}

// Unsubscribe removes the subscriber. Safe to call more than once.
func (sub *streamSub[T]) Unsubscribe() {
	s := sub.stream
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.subs {
		if candidate == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Channel bridges the stream onto a channel until ctx is canceled. The
// channel is closed on cancellation. A full channel drops the emission
// rather than stalling the tree; size the buffer for the consumer's lag.
func (s *Stream[T]) Channel(ctx context.Context, buffer int) <-chan T {
	out := make(chan T, buffer)
	var mu sync.Mutex
	closed := false

	sub := s.Subscribe(func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- v:
		default:
			// Slow consumer, drop.
		}
	})

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	return out
}
