package commands

import (
	"errors"
	"time"

	"interpreting/internal/pkg/errs"
	"interpreting/internal/pkg/guard"
)

var ErrRunRepeatSweepCommandIsNotConstructed = errors.New(
	"RunRepeatSweepCommand must be created via NewRunRepeatSweepCommand constructor",
)

// RunRepeatSweepCommand triggers one pass over recurring bookings whose
// next occurrence is due.
type RunRepeatSweepCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewRunRepeatSweepCommand creates a command to clone due occurrences as
// of now.
func NewRunRepeatSweepCommand(now time.Time) (RunRepeatSweepCommand, error) {
	if now.IsZero() {
		return RunRepeatSweepCommand{}, errs.NewValueIsRequiredError("sweep time")
	}

	return RunRepeatSweepCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RunRepeatSweepCommand) Validate() error {
	return c.guard.Validate(ErrRunRepeatSweepCommandIsNotConstructed)
}

// Now returns the instant the sweep evaluates due times against.
func (c RunRepeatSweepCommand) Now() time.Time {
	return c.now
}
