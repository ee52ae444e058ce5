package commands

import (
	"errors"
	"time"

	"interpreting/internal/pkg/errs"
	"interpreting/internal/pkg/guard"
)

var ErrRunSearchSweepCommandIsNotConstructed = errors.New(
	"RunSearchSweepCommand must be created via NewRunSearchSweepCommand constructor",
)

// RunSearchSweepCommand triggers one pass of the search scheduler over
// every due order. The sweep time travels in the command so deadlines are
// evaluated against one consistent instant.
type RunSearchSweepCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewRunSearchSweepCommand creates a command to run one sweep as of now.
func NewRunSearchSweepCommand(now time.Time) (RunSearchSweepCommand, error) {
	if now.IsZero() {
		return RunSearchSweepCommand{}, errs.NewValueIsRequiredError("sweep time")
	}

	return RunSearchSweepCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RunSearchSweepCommand) Validate() error {
	return c.guard.Validate(ErrRunSearchSweepCommandIsNotConstructed)
}

// Now returns the instant the sweep evaluates deadlines against.
func (c RunSearchSweepCommand) Now() time.Time {
	return c.now
}
