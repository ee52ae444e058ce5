package order

import (
	"fmt"

	"interpreting/internal/pkg/errs"
)

// Status represents the lifecycle state of an appointment order.
// It implements a state machine with defined transitions so orders always
// follow the search workflow.
//
// State transitions:
//
//	Created ──> Tier1Searching ──> Tier2Searching ──> AdminEscalated
//	                │                    │                  │
//	                │                    │                  └──> Tier1Searching (restart)
//	                └──────────┬─────────┘
//	                           v
//	                       Assigned            (terminal)
//	  any non-terminal ──> Refused             (terminal)
//
// Assignment is allowed from every searching state including
// AdminEscalated, since an operator can still hand-place an interpreter
// while the order waits for a restart.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status of a freshly seeded order, before the
	// first search sweep has populated candidates.
	Created

	// Tier1Searching means invitations from the company-scoped candidate
	// pool are outstanding.
	Tier1Searching

	// Tier2Searching means the first tier expired and the widened pool is
	// being invited.
	Tier2Searching

	// AdminEscalated means both tiers were exhausted unanswered and a
	// human operator has been alerted. The order waits for its restart
	// deadline, after which search re-enters tier one.
	AdminEscalated

	// Assigned means an interpreter accepted the order. Terminal.
	Assigned

	// Refused means the order was cancelled by the client or an operator.
	// Terminal.
	Refused
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Created:        "Created",
		Tier1Searching: "Tier1Searching",
		Tier2Searching: "Tier2Searching",
		AdminEscalated: "AdminEscalated",
		Assigned:       "Assigned",
		Refused:        "Refused",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:        "Created",
		Tier1Searching: "Tier1Searching",
		Tier2Searching: "Tier2Searching",
		AdminEscalated: "AdminEscalated",
		Assigned:       "Assigned",
		Refused:        "Refused",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements the fmt.Stringer interface and is safe to call on any Status
// value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Assigned || s == Refused
}

// IsSearching reports whether invitations may be outstanding for an order
// in this status.
func (s Status) IsSearching() bool {
	return s == Tier1Searching || s == Tier2Searching || s == AdminEscalated
}

// ValidateAssign checks if the status allows an interpreter to accept the
// order, without performing the transition. Assignment is allowed from
// Created and every searching state; it is rejected once the order is
// terminal.
func (s Status) ValidateAssign() error {
	if s.IsTerminal() || (s != Created && !s.IsSearching()) {
		return errs.NewConflictErrorWithCause(
			"status", s.String(),
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return nil
}

// Assign transitions the status to Assigned.
// Returns an error if the order is already resolved.
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}

	return Assigned, nil
}

// StartTier1 transitions the status to Tier1Searching.
//
// Valid transitions:
//   - Created -> Tier1Searching (first sweep)
//   - Tier1Searching -> Tier1Searching (candidate recomputation)
//   - AdminEscalated -> Tier1Searching (restart after full exhaustion)
func (s Status) StartTier1() (Status, error) {
	if s != Created && s != Tier1Searching && s != AdminEscalated {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start first-tier search", s.String()),
		)
	}

	return Tier1Searching, nil
}

// EscalateTier2 transitions the status to Tier2Searching.
// Only Tier1Searching orders escalate; escalation never regresses.
func (s Status) EscalateTier2() (Status, error) {
	if s != Tier1Searching {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to escalate to second tier", s.String()),
		)
	}

	return Tier2Searching, nil
}

// EscalateAdmin transitions the status to AdminEscalated after the second
// tier expires unanswered.
func (s Status) EscalateAdmin() (Status, error) {
	if s != Tier2Searching {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to escalate to an operator", s.String()),
		)
	}

	return AdminEscalated, nil
}

// Refuse transitions the status to Refused.
// Any non-terminal order can be refused; refusing a resolved order is a
// conflict.
func (s Status) Refuse() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictErrorWithCause(
			"status", s.String(),
			fmt.Errorf("%s is not a valid status to refuse", s.String()),
		)
	}
	if _, ok := getValidStatusStrings()[s]; !ok {
		return 0, errs.NewValueIsInvalidError("status is invalid")
	}

	return Refused, nil
}
