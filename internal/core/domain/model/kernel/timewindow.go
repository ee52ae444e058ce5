package kernel

import (
	"fmt"
	"time"

	"interpreting/internal/pkg/errs"
)

// ErrTimeWindowIsNotConstructed is returned when validating a zero-value
// TimeWindow that was not created via NewTimeWindow.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError("TimeWindow must be created via NewTimeWindow")

// TimeWindow is a value object describing the scheduling window of one
// appointment leg: when the session starts and when it ends.
//
// TimeWindow is immutable and thread-safe.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

// NewTimeWindow creates a TimeWindow. The start must be non-zero and the
// end must be strictly after the start.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("start time")
	}
	if !end.After(start) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"time window",
			fmt.Errorf("end %s is not after start %s", end, start),
		)
	}

	return TimeWindow{start: start, end: end}, nil
}

// Start returns the beginning of the window.
func (w TimeWindow) Start() time.Time {
	return w.start
}

// End returns the end of the window.
func (w TimeWindow) End() time.Time {
	return w.end
}

// Duration returns the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Shift returns a copy of the window moved forward by d. Used when cloning
// the next occurrence of a recurring booking.
func (w TimeWindow) Shift(d time.Duration) TimeWindow {
	return TimeWindow{start: w.start.Add(d), end: w.end.Add(d)}
}

// Overlaps reports whether two windows share any span of time.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// IsEqual compares two windows for equality.
func (w TimeWindow) IsEqual(other TimeWindow) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

// Validate checks that the window was created via NewTimeWindow.
func (w TimeWindow) Validate() error {
	if w.start.IsZero() || w.end.IsZero() {
		return ErrTimeWindowIsNotConstructed
	}
	return nil
}
