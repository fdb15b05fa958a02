package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestSpinnerStopIsNotCancel(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop() should not mark the spinner as cancelled")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerAnimates(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Drawing")
	s.out, s.animate = &buf, true
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains(buf.Bytes(), []byte("Drawing")) {
		t.Errorf("spinner output %q should contain the message", buf.String())
	}
}

func TestWithSpinner(t *testing.T) {
	boom := errors.New("boom")

	if err := withSpinner(context.Background(), "ok", func() error { return nil }); err != nil {
		t.Errorf("withSpinner() = %v, want nil", err)
	}
	if err := withSpinner(context.Background(), "fail", func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("withSpinner() = %v, want %v", err, boom)
	}

	ctx, cancel := context.WithCancel(context.Background())
	err := withSpinner(ctx, "cancel", func() error {
		cancel()
		return boom
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("withSpinner() after cancel = %v, want context.Canceled", err)
	}
}
