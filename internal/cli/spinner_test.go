package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Testing with context...")
	s.Start()

	cancel()

	// Stop blocks until the animation goroutine has exited, so returning
	// here means cancellation was observed.
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner(context.Background(), "first")
	s.Start()
	s.SetMessage("second")
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}
