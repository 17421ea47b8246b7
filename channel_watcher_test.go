package forms

import (
	"context"
	"testing"
	"time"
)

func TestChannelWatcher_ForwardsPayloads(t *testing.T) {
	src := make(chan []byte, 2)
	w := NewChannelWatcher(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	src <- []byte("one")
	select {
	case got := <-out:
		if string(got) != "one" {
			t.Errorf("expected one, got %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
	}
}

func TestChannelWatcher_ClosesOnSourceClose(t *testing.T) {
	src := make(chan []byte)
	w := NewChannelWatcher(src)

	out, err := w.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	close(src)

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestChannelWatcher_ClosesOnContextCancel(t *testing.T) {
	src := make(chan []byte)
	w := NewChannelWatcher(src)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestSyncChannelWatcher_ReturnsSourceDirectly(t *testing.T) {
	src := make(chan []byte, 1)
	w := NewSyncChannelWatcher(src)

	out, err := w.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	src <- []byte("direct")
	select {
	case got := <-out:
		if string(got) != "direct" {
			t.Errorf("expected direct, got %s", got)
		}
	default:
		t.Error("sync watcher must hand back the source channel")
	}
}
