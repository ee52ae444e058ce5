package order

import (
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/errs"
)

var (
	// ErrNotACandidate is returned when an operation references an
	// interpreter that is not currently among the matched candidates.
	ErrNotACandidate = errors.New("interpreter is not a current candidate")

	// ErrAlreadyRejected is returned when inviting an interpreter who
	// previously declined.
	ErrAlreadyRejected = errors.New("interpreter has already rejected this order")
)

// CandidateSet owns the matched and rejected interpreter id sets of an
// order or group. All mutations go through transition methods that keep
// the two sets disjoint; call sites never filter the slices themselves.
//
// Matched ids keep their invitation order. Rejected ids accumulate and are
// never re-invited through Replace; only ForceInvite (the operator
// override) may pull an id back out of the rejected set.
type CandidateSet struct {
	matched  []kernel.UUID
	rejected []kernel.UUID
}

// NewCandidateSet creates an empty CandidateSet.
func NewCandidateSet() CandidateSet {
	return CandidateSet{}
}

// RestoreCandidateSet rebuilds a CandidateSet from persistence. Returns an
// error if the two sets intersect.
func RestoreCandidateSet(matched, rejected []kernel.UUID) (CandidateSet, error) {
	for _, id := range matched {
		if containsID(rejected, id) {
			return CandidateSet{}, errs.NewValueIsInvalidErrorWithCause(
				"candidate set", errors.New("matched and rejected sets intersect"))
		}
	}
	return CandidateSet{
		matched:  append([]kernel.UUID(nil), matched...),
		rejected: append([]kernel.UUID(nil), rejected...),
	}, nil
}

// Matched returns a copy of the currently invited interpreter ids, in
// invitation order.
func (c *CandidateSet) Matched() []kernel.UUID {
	return append([]kernel.UUID(nil), c.matched...)
}

// Rejected returns a copy of the interpreter ids that declined or were
// superseded.
func (c *CandidateSet) Rejected() []kernel.UUID {
	return append([]kernel.UUID(nil), c.rejected...)
}

// IsMatched reports whether the id is currently invited.
func (c *CandidateSet) IsMatched(id kernel.UUID) bool {
	return containsID(c.matched, id)
}

// IsRejected reports whether the id previously declined.
func (c *CandidateSet) IsRejected(id kernel.UUID) bool {
	return containsID(c.rejected, id)
}

// Invite adds an id to the matched set. Inviting an already matched id is
// a no-op; inviting a rejected id fails with ErrAlreadyRejected.
func (c *CandidateSet) Invite(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if c.IsRejected(id) {
		return ErrAlreadyRejected
	}
	if c.IsMatched(id) {
		return nil
	}
	c.matched = append(c.matched, id)
	return nil
}

// ForceInvite adds an id to the matched set even if it previously
// declined, removing it from the rejected set first. Operator override
// only.
func (c *CandidateSet) ForceInvite(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.rejected = removeID(c.rejected, id)
	if !c.IsMatched(id) {
		c.matched = append(c.matched, id)
	}
	return nil
}

// MoveToRejected moves an id from the matched set to the rejected set.
// Returns ErrNotACandidate if the id is not currently matched.
func (c *CandidateSet) MoveToRejected(id kernel.UUID) error {
	if !c.IsMatched(id) {
		return ErrNotACandidate
	}
	c.matched = removeID(c.matched, id)
	c.rejected = append(c.rejected, id)
	return nil
}

// Replace swaps the matched set for the given ids, preserving their order
// and silently dropping any id that previously declined. It returns the
// ids that were not matched before the call, so the caller knows which
// invitations are new.
func (c *CandidateSet) Replace(ids []kernel.UUID) []kernel.UUID {
	var next, newly []kernel.UUID
	for _, id := range ids {
		if c.IsRejected(id) || containsID(next, id) {
			continue
		}
		if !c.IsMatched(id) {
			newly = append(newly, id)
		}
		next = append(next, id)
	}
	c.matched = next
	return newly
}

// Clear empties the matched set, leaving the rejected set intact. Used
// when an order leaves the searchable states.
func (c *CandidateSet) Clear() {
	c.matched = nil
}

func containsID(ids []kernel.UUID, id kernel.UUID) bool {
	for _, candidate := range ids {
		if candidate.IsEqual(id) {
			return true
		}
	}
	return false
}

func removeID(ids []kernel.UUID, id kernel.UUID) []kernel.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if !candidate.IsEqual(id) {
			out = append(out, candidate)
		}
	}
	return out
}
