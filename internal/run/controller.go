package run

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"subgen/internal/logging"
)

// Outcome classifies how a finished action ended.
type Outcome string

const (
	OutcomeDone     Outcome = "done"
	OutcomeCanceled Outcome = "canceled"
	OutcomeFailed   Outcome = "failed"
)

// Status is the short human-readable result of the last action.
type Status struct {
	Outcome Outcome
	Message string
}

// Controller enforces at-most-one in-flight action per workflow owner.
// Each launch issues a fresh cancellation token, replacing any prior one;
// cancellation is a normal termination, never an error. The controller
// always returns to idle.
type Controller struct {
	name   string
	logger *logging.Logger

	mu     sync.Mutex
	busy   bool
	cancel context.CancelFunc
	done   chan struct{}
	status Status
}

// NewController creates an idle controller for one workflow owner.
func NewController(name string, logger *logging.Logger) *Controller {
	return &Controller{
		name:   name,
		logger: logger,
	}
}

// Launch starts action on its own goroutine with a fresh cancellation
// token derived from parent. A launch while an action is in flight is a
// no-op and returns false.
func (c *Controller) Launch(parent context.Context, action func(ctx context.Context) error) bool {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.logger.Debugw("action already running, request ignored",
			"owner", c.name,
		)
		return false
	}

	if c.cancel != nil {
		// Dispose the token of the previous, already finished run.
		c.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	runID := uuid.NewString()

	c.busy = true
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.logger.Debugw("action started",
		"owner", c.name,
		"run_id", runID,
	)

	go func() {
		err := action(ctx)

		c.mu.Lock()
		switch {
		case errors.Is(err, context.Canceled):
			c.status = Status{Outcome: OutcomeCanceled, Message: "canceled"}
			c.logger.Infow("action canceled",
				"owner", c.name,
				"run_id", runID,
			)
		case err != nil:
			c.status = Status{Outcome: OutcomeFailed, Message: shortMessage(err)}
			c.logger.Errorw("action failed",
				"owner", c.name,
				"run_id", runID,
				"error", err,
			)
		default:
			c.status = Status{Outcome: OutcomeDone, Message: "done"}
			c.logger.Debugw("action finished",
				"owner", c.name,
				"run_id", runID,
			)
		}
		c.busy = false
		c.mu.Unlock()

		close(done)
	}()

	return true
}

// Run launches action and waits for it to finish. Returns false when an
// action was already in flight.
func (c *Controller) Run(parent context.Context, action func(ctx context.Context) error) (Status, bool) {
	if !c.Launch(parent, action) {
		return Status{}, false
	}
	c.Wait()
	return c.Status(), true
}

// Cancel requests cancellation of the in-flight action, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy && c.cancel != nil {
		c.cancel()
	}
}

// Wait blocks until the current action finishes. No-op when idle.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Busy reports whether an action is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Status returns the result of the most recently finished action.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// shortMessage reduces an error to a single short status line.
func shortMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
