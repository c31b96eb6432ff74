package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), "Decomposing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop() // idempotent
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Decomposing...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinner(context.Background(), "Rendering...")
	s.Start()
	s.StopWithSuccess("Rendered")

	s = newSpinner(context.Background(), "Rendering...")
	s.Start()
	s.StopWithError("Failed")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), "Loading...")
	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Start() // no-op once stopped
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a spinner that was never started")
	}
}
