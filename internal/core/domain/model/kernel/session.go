package kernel

import (
	"fmt"

	"interpreting/internal/pkg/errs"
)

// CommunicationType describes how an interpreting session is delivered.
type CommunicationType int

const (
	// CommunicationUnknown represents an invalid or undefined type.
	CommunicationUnknown CommunicationType = iota

	// Onsite means the interpreter attends in person.
	Onsite

	// Video means the session runs over a video call.
	Video

	// Phone means the session runs over an audio call.
	Phone
)

func getCommunicationTypeStrings() map[CommunicationType]string {
	return map[CommunicationType]string{
		CommunicationUnknown: "Unknown",
		Onsite:               "Onsite",
		Video:                "Video",
		Phone:                "Phone",
	}
}

// Validate checks if the CommunicationType value is valid.
func (c CommunicationType) Validate() error {
	if c == CommunicationUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"communication type is invalid",
			fmt.Errorf("%d is not a valid communication type", c),
		)
	}
	if _, ok := getCommunicationTypeStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"communication type is invalid",
			fmt.Errorf("%d is not a valid communication type", c),
		)
	}
	return nil
}

// String returns the human-readable name of the communication type.
func (c CommunicationType) String() string {
	if str, ok := getCommunicationTypeStrings()[c]; ok {
		return str
	}
	return "Unknown"
}

// SchedulingType describes when an interpreting session is needed.
type SchedulingType int

const (
	// SchedulingUnknown represents an invalid or undefined type.
	SchedulingUnknown SchedulingType = iota

	// OnDemand sessions start as soon as an interpreter accepts.
	OnDemand

	// PreBooked sessions are scheduled for a future time window.
	PreBooked
)

func getSchedulingTypeStrings() map[SchedulingType]string {
	return map[SchedulingType]string{
		SchedulingUnknown: "Unknown",
		OnDemand:          "OnDemand",
		PreBooked:         "PreBooked",
	}
}

// Validate checks if the SchedulingType value is valid.
func (s SchedulingType) Validate() error {
	if s != OnDemand && s != PreBooked {
		return errs.NewValueIsInvalidErrorWithCause(
			"scheduling type is invalid",
			fmt.Errorf("%d is not a valid scheduling type", s),
		)
	}
	return nil
}

// String returns the human-readable name of the scheduling type.
func (s SchedulingType) String() string {
	if str, ok := getSchedulingTypeStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
