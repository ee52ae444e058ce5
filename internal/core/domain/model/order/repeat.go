package order

import (
	"fmt"
	"time"

	"interpreting/internal/pkg/errs"
)

// RepeatInterval is the spacing between occurrences of a recurring booking.
type RepeatInterval int

const (
	// RepeatNone marks a one-off booking.
	RepeatNone RepeatInterval = iota
	Daily
	Weekly
	Biweekly
	Monthly
)

func getRepeatIntervalStrings() map[RepeatInterval]string {
	return map[RepeatInterval]string{
		RepeatNone: "None",
		Daily:      "Daily",
		Weekly:     "Weekly",
		Biweekly:   "Biweekly",
		Monthly:    "Monthly",
	}
}

// Validate checks if the RepeatInterval value is valid for a recurring
// schedule.
func (i RepeatInterval) Validate() error {
	switch i {
	case Daily, Weekly, Biweekly, Monthly:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"repeat interval is invalid",
			fmt.Errorf("%d is not a valid repeat interval", i),
		)
	}
}

// String returns the human-readable name of the interval.
func (i RepeatInterval) String() string {
	if str, ok := getRepeatIntervalStrings()[i]; ok {
		return str
	}
	return "None"
}

// Next returns the given time advanced by one interval.
func (i RepeatInterval) Next(t time.Time) time.Time {
	switch i {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Biweekly:
		return t.AddDate(0, 0, 14)
	case Monthly:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}

// RepeatSchedule is the recurring-booking schedule of an order: how often
// it repeats, how many occurrences remain, and when the next one is due.
type RepeatSchedule struct {
	interval  RepeatInterval
	remaining int
	nextAt    time.Time
}

// NewRepeatSchedule creates a schedule with the given interval, remaining
// occurrence count, and first due time.
func NewRepeatSchedule(interval RepeatInterval, remaining int, nextAt time.Time) (RepeatSchedule, error) {
	if err := interval.Validate(); err != nil {
		return RepeatSchedule{}, err
	}
	if remaining <= 0 {
		return RepeatSchedule{}, errs.NewValueIsInvalidErrorWithCause(
			"remaining repeats",
			fmt.Errorf("%d is not greater than 0", remaining),
		)
	}
	if nextAt.IsZero() {
		return RepeatSchedule{}, errs.NewValueIsRequiredError("next repeat time")
	}

	return RepeatSchedule{interval: interval, remaining: remaining, nextAt: nextAt}, nil
}

// Interval returns the spacing between occurrences.
func (r RepeatSchedule) Interval() RepeatInterval {
	return r.interval
}

// Remaining returns how many occurrences are still to be cloned.
func (r RepeatSchedule) Remaining() int {
	return r.remaining
}

// NextAt returns when the next occurrence is due.
func (r RepeatSchedule) NextAt() time.Time {
	return r.nextAt
}

// IsDue reports whether the next occurrence should be cloned now.
func (r RepeatSchedule) IsDue(now time.Time) bool {
	return r.remaining > 0 && !r.nextAt.After(now)
}

// Advance consumes one occurrence: it decrements the remaining count and
// moves the due time forward by one interval. Returns the advanced
// schedule and whether any occurrences remain.
func (r RepeatSchedule) Advance() (RepeatSchedule, bool) {
	next := RepeatSchedule{
		interval:  r.interval,
		remaining: r.remaining - 1,
		nextAt:    r.interval.Next(r.nextAt),
	}
	return next, next.remaining > 0
}
