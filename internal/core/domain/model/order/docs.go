// Package order provides domain entities and business logic for appointment
// order management. It implements the AppointmentOrder aggregate root with
// lifecycle management, candidate bookkeeping, and state transitions, plus
// the AppointmentOrderGroup aggregate for multi-leg bookings.
//
// The package includes:
//   - Order: The aggregate root representing one bookable appointment leg
//     awaiting or holding an interpreter assignment
//   - Group: A set of orders resolved together, optionally requiring the
//     same interpreter for every leg
//   - Status: A state machine that enforces valid order status transitions
//   - CandidateSet: The owned matched/rejected interpreter id sets with
//     explicit transition methods
//   - RepeatSchedule: The recurring-booking schedule of an order
//
// Key business rules:
//   - Matched and rejected candidate sets are always disjoint
//   - Once an interpreter is assigned, search is permanently closed for
//     that order
//   - Search deadlines only ever move forward; escalation never regresses
//     a deadline
//   - A group is deleted once its last member order is removed
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
