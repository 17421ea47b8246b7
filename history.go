package forms

import (
	"sync"
	"time"
)

// Failure is one recorded loader failure with the clock time it
// happened.
type Failure struct {
	Err error
	At  time.Time
}

// failureLog is a fixed-capacity ring of recent loader failures. A nil
// log (capacity zero) records nothing.
type failureLog struct {
	mu      sync.RWMutex
	entries []Failure
	size    int
	head    int
	count   int
}

func newFailureLog(size int) *failureLog {
	if size <= 0 {
		return nil
	}
	return &failureLog{
		entries: make([]Failure, size),
		size:    size,
	}
}

func (l *failureLog) push(f Failure) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.head] = f
	l.head = (l.head + 1) % l.size
	if l.count < l.size {
		l.count++
	}
}

func (l *failureLog) clear() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		l.entries[i] = Failure{}
	}
	l.head = 0
	l.count = 0
}

// all returns the recorded failures, oldest first.
func (l *failureLog) all() []Failure {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return nil
	}
	out := make([]Failure, l.count)
	start := (l.head - l.count + l.size) % l.size
	for i := 0; i < l.count; i++ {
		out[i] = l.entries[(start+i)%l.size]
	}
	return out
}
