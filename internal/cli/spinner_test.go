package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// captureStatus redirects status output to a buffer for the test.
func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prev })
	return &buf
}

func TestSpinnerBasic(t *testing.T) {
	buf := captureStatus(t)
	s := newSpinner(context.Background(), "Dumping...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop() reported as cancellation")
	}
	if !strings.Contains(buf.String(), "Dumping...") {
		t.Errorf("spinner output = %q", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	captureStatus(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStatus(t)
	s := newSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	buf := captureStatus(t)
	s := newSpinner(context.Background(), "Working...")
	s.Start()
	s.StopWithSuccess("Done!")
	if !strings.Contains(buf.String(), "Done!") {
		t.Errorf("output = %q, want success message", buf.String())
	}

	s = newSpinner(context.Background(), "Working...")
	s.Start()
	s.StopWithError("Failed!")
	if !strings.Contains(buf.String(), "Failed!") {
		t.Errorf("output = %q, want error message", buf.String())
	}
}

func TestNilSpinner(t *testing.T) {
	captureStatus(t)
	var s *Spinner
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("nil spinner reported cancellation")
	}
	s.StopWithSuccess("ok")
}
