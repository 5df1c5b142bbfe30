package run

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"subgen/internal/logging"
)

func TestRunDone(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	status, started := c.Run(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if !started {
		t.Fatal("Run refused on an idle controller")
	}
	if status.Outcome != OutcomeDone {
		t.Errorf("outcome = %v, want done", status.Outcome)
	}
	if c.Busy() {
		t.Error("controller still busy after Run")
	}
}

func TestRunFailed(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	status, started := c.Run(context.Background(), func(ctx context.Context) error {
		return errors.New("extraction blew up")
	})
	if !started {
		t.Fatal("Run refused")
	}
	if status.Outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", status.Outcome)
	}
	if status.Message != "extraction blew up" {
		t.Errorf("message = %q", status.Message)
	}
	if c.Busy() {
		t.Error("controller stuck busy after a failure")
	}
}

func TestRunCanceled(t *testing.T) {
	c := NewController("video", logging.NewNop())

	running := make(chan struct{})
	ok := c.Launch(context.Background(), func(ctx context.Context) error {
		close(running)
		<-ctx.Done()
		return ctx.Err()
	})
	if !ok {
		t.Fatal("Launch refused")
	}

	<-running
	c.Cancel()
	c.Wait()

	status := c.Status()
	if status.Outcome != OutcomeCanceled {
		t.Errorf("outcome = %v, want canceled", status.Outcome)
	}
	if c.Busy() {
		t.Error("controller busy after cancellation")
	}
}

func TestCanceledIsNotFailure(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	// an action that wraps the cancellation still counts as canceled
	status, _ := c.Run(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("recognizing: %w", context.Canceled)
	})
	if status.Outcome != OutcomeCanceled {
		t.Errorf("outcome = %v, want canceled", status.Outcome)
	}
}

func TestLaunchWhileBusyIsNoOp(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	release := make(chan struct{})
	running := make(chan struct{})
	if !c.Launch(context.Background(), func(ctx context.Context) error {
		close(running)
		<-release
		return nil
	}) {
		t.Fatal("first Launch refused")
	}
	<-running

	var second atomic.Bool
	if c.Launch(context.Background(), func(ctx context.Context) error {
		second.Store(true)
		return nil
	}) {
		t.Error("second Launch accepted while busy")
	}

	close(release)
	c.Wait()

	if second.Load() {
		t.Error("second action ran despite being refused")
	}
	if c.Status().Outcome != OutcomeDone {
		t.Errorf("status = %+v", c.Status())
	}
}

func TestRelaunchAfterFinish(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	for i := 0; i < 3; i++ {
		status, started := c.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		if !started || status.Outcome != OutcomeDone {
			t.Fatalf("run %d: started=%v status=%+v", i, started, status)
		}
	}
}

func TestFreshTokenPerLaunch(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	// cancel the first run, then verify the second gets an uncanceled context
	running := make(chan struct{})
	c.Launch(context.Background(), func(ctx context.Context) error {
		close(running)
		<-ctx.Done()
		return ctx.Err()
	})
	<-running
	c.Cancel()
	c.Wait()

	status, started := c.Run(context.Background(), func(ctx context.Context) error {
		return ctx.Err()
	})
	if !started {
		t.Fatal("relaunch refused")
	}
	if status.Outcome != OutcomeDone {
		t.Errorf("second run inherited cancellation: %+v", status)
	}
}

func TestCancelWhenIdleIsNoOp(t *testing.T) {
	c := NewController("audio", logging.NewNop())
	c.Cancel()
	c.Wait()

	if c.Busy() {
		t.Error("idle controller reports busy")
	}
}

func TestShortMessage(t *testing.T) {
	if got := shortMessage(errors.New("first line\nsecond line")); got != "first line" {
		t.Errorf("shortMessage = %q", got)
	}

	long := strings.Repeat("x", 300)
	got := shortMessage(errors.New(long))
	if len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("long message not capped: %d chars", len(got))
	}
}

func TestWaitReturnsPromptly(t *testing.T) {
	c := NewController("audio", logging.NewNop())

	start := time.Now()
	c.Run(context.Background(), func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run took %v", elapsed)
	}
}
