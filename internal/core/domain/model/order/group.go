package order

import (
	"errors"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/errs"
	"interpreting/internal/pkg/guard"
)

var (
	// ErrGroupIsNotConstructed is returned when a Group instance was not
	// created through the NewGroup or RestoreGroup factory methods.
	ErrGroupIsNotConstructed = errors.New("Group must be created via NewGroup constructor")

	// ErrOrderNotInGroup is returned when removing an order that is not a
	// member of the group.
	ErrOrderNotInGroup = errors.New("order is not a member of the group")
)

// Group aggregates appointment orders that are resolved together, such as
// the legs of a multi-day booking. When sameInterpreter is set, every
// member order must end up with the identical assignee, and group-level
// accept is all-or-nothing.
//
// The group carries its own candidate mirror, used when the group rather
// than an individual leg is the unit of search: with sameInterpreter the
// mirror holds the intersection of the member pools, otherwise the union.
//
// A group is deleted once its last member order is removed.
type Group struct {
	id              kernel.UUID
	orderIDs        []kernel.UUID
	sameInterpreter bool

	candidates    CandidateSet
	endSearchTime *time.Time

	version int64

	guard guard.ConstructorGuard
}

// NewGroup creates a Group over the given member order ids.
// At least one member is required.
func NewGroup(id kernel.UUID, sameInterpreter bool, orderIDs []kernel.UUID) (*Group, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("group orders")
	}
	for _, orderID := range orderIDs {
		if err := orderID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Group{
		id:              id,
		orderIDs:        append([]kernel.UUID(nil), orderIDs...),
		sameInterpreter: sameInterpreter,
		candidates:      NewCandidateSet(),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// GroupSnapshot is the persistence representation of a group, used by
// RestoreGroup to rebuild the aggregate from the database.
type GroupSnapshot struct {
	ID              kernel.UUID
	OrderIDs        []kernel.UUID
	SameInterpreter bool
	Candidates      CandidateSet
	EndSearchTime   *time.Time
	Version         int64
}

// RestoreGroup rebuilds a Group from its persisted snapshot.
func RestoreGroup(s GroupSnapshot) (*Group, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}

	return &Group{
		id:              s.ID,
		orderIDs:        s.OrderIDs,
		sameInterpreter: s.SameInterpreter,
		candidates:      s.Candidates,
		endSearchTime:   s.EndSearchTime,
		version:         s.Version,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Group instance was properly constructed.
func (g *Group) Validate() error {
	if g == nil {
		return ErrGroupIsNotConstructed
	}
	return g.guard.Validate(ErrGroupIsNotConstructed)
}

// ID returns the group's unique identifier.
func (g *Group) ID() kernel.UUID {
	return g.id
}

// OrderIDs returns a copy of the member order ids.
func (g *Group) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), g.orderIDs...)
}

// SameInterpreter reports whether every member order must share one
// assignee.
func (g *Group) SameInterpreter() bool {
	return g.sameInterpreter
}

// Candidates returns the group-level candidate mirror.
func (g *Group) Candidates() *CandidateSet {
	return &g.candidates
}

// EndSearchTime returns the group-level search deadline, if any.
func (g *Group) EndSearchTime() *time.Time {
	return g.endSearchTime
}

// Version returns the optimistic concurrency token.
func (g *Group) Version() int64 {
	return g.version
}

// Contains reports whether the order is a member of the group.
func (g *Group) Contains(orderID kernel.UUID) bool {
	return containsID(g.orderIDs, orderID)
}

// AddOrder adds a new member order. Adding an existing member is a no-op.
func (g *Group) AddOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !g.Contains(orderID) {
		g.orderIDs = append(g.orderIDs, orderID)
	}
	return nil
}

// RemoveOrder removes a member order. The caller must delete the group
// once IsEmpty reports true.
func (g *Group) RemoveOrder(orderID kernel.UUID) error {
	if !g.Contains(orderID) {
		return ErrOrderNotInGroup
	}
	g.orderIDs = removeID(g.orderIDs, orderID)
	return nil
}

// IsEmpty reports whether the group has no member orders left.
func (g *Group) IsEmpty() bool {
	return len(g.orderIDs) == 0
}

// SetEndSearchTime moves the group-level search deadline forward.
func (g *Group) SetEndSearchTime(deadline time.Time) error {
	if deadline.IsZero() {
		return errs.NewValueIsRequiredError("search deadline")
	}
	if g.endSearchTime != nil && deadline.Before(*g.endSearchTime) {
		return errs.NewValueIsInvalidError("search deadline")
	}
	g.endSearchTime = &deadline
	return nil
}
