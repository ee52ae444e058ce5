package services

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/errs"
)

// Tier identifies which candidate-eligibility rule set produced a pool.
type Tier int

const (
	// Tier1 restricts the pool to exact matches within the booking's
	// company scope.
	Tier1 Tier = iota + 1

	// Tier2 relaxes company scoping to the cross-company pool of
	// interpreters who opted into overtime rates.
	Tier2
)

// String returns the human-readable name of the tier.
func (t Tier) String() string {
	switch t {
	case Tier1:
		return "Tier1"
	case Tier2:
		return "Tier2"
	default:
		return "Unknown"
	}
}

// TierPolicy is the configurable escalation policy applied by the Matcher
// and the search sweep. The exact relaxation order between tiers is policy,
// not law, so deployments can tune it without touching the engine.
type TierPolicy struct {
	// Tier1Duration is how long first-tier invitations stay open before
	// escalation.
	Tier1Duration time.Duration

	// Tier2Duration is how long second-tier invitations stay open before
	// a human operator is alerted.
	Tier2Duration time.Duration

	// AdminNotifyDelay is how long after second-tier expiry the operator
	// alert fires.
	AdminNotifyDelay time.Duration

	// RestartDelay is how long an escalated order waits before search
	// re-enters the first tier.
	RestartDelay time.Duration

	// RelaxCompanyScope opens the second tier to interpreters outside the
	// operating company, provided they accept overtime rates.
	RelaxCompanyScope bool

	// RelaxGenderPreference drops the gender preference in the second
	// tier. The language pair and interpreter type never relax.
	RelaxGenderPreference bool
}

// DefaultTierPolicy returns the policy used when the configuration does not
// override the escalation timings.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		Tier1Duration:         5 * time.Minute,
		Tier2Duration:         15 * time.Minute,
		AdminNotifyDelay:      time.Minute,
		RestartDelay:          30 * time.Minute,
		RelaxCompanyScope:     true,
		RelaxGenderPreference: false,
	}
}

// Validate checks the policy durations are usable.
func (p TierPolicy) Validate() error {
	if p.Tier1Duration <= 0 {
		return errs.NewValueIsOutOfRangeError("tier1 duration", p.Tier1Duration, 0, nil)
	}
	if p.Tier2Duration <= 0 {
		return errs.NewValueIsOutOfRangeError("tier2 duration", p.Tier2Duration, 0, nil)
	}
	if p.AdminNotifyDelay < 0 {
		return errs.NewValueIsOutOfRangeError("admin notify delay", p.AdminNotifyDelay, 0, nil)
	}
	if p.RestartDelay <= 0 {
		return errs.NewValueIsOutOfRangeError("restart delay", p.RestartDelay, 0, nil)
	}
	return nil
}

// Tier1Deadline returns when first-tier invitations opened at now expire.
func (p TierPolicy) Tier1Deadline(now time.Time) time.Time {
	return now.Add(p.Tier1Duration)
}

// Tier2Deadline returns when second-tier invitations opened at now expire.
func (p TierPolicy) Tier2Deadline(now time.Time) time.Time {
	return now.Add(p.Tier2Duration)
}

// AdminSchedule returns the operator alert time and the automatic restart
// time for an order whose second tier expired at now.
func (p TierPolicy) AdminSchedule(now time.Time) (notifyAt, restartAt time.Time) {
	return now.Add(p.AdminNotifyDelay), now.Add(p.RestartDelay)
}

// Matcher is the domain service computing the candidate interpreter pool
// for an order.
//
// Key responsibilities:
//   - Filtering the interpreter pool down to eligible candidates
//   - Applying the tier that matches the order's escalation progress
//   - Keeping recomputation deterministic so sweeps are idempotent
//
// Business rules:
//   - Rejected interpreters are never re-invited, in any tier
//   - Language pair and interpreter type must match exactly, in any tier
//   - Tier one stays inside the booking's company scope
//   - Tier two relaxes scoping per the configured policy
//
// Ties within a tier break by rating (descending), then most recently
// online (descending), then id (ascending) as the final stable key.
type Matcher struct {
	policy TierPolicy
}

// NewMatcher creates a Matcher applying the given tier policy.
func NewMatcher(policy TierPolicy) (Matcher, error) {
	if err := policy.Validate(); err != nil {
		return Matcher{}, err
	}
	return Matcher{policy: policy}, nil
}

// Policy returns the tier policy the matcher applies.
func (m Matcher) Policy() TierPolicy {
	return m.policy
}

// ComputeCandidates filters the pool down to the interpreters eligible for
// the order and returns them with the tier that produced them.
//
// Parameters:
//   - o: the order to compute candidates for (must be valid and unresolved)
//   - pool: the interpreter profiles to consider
//
// Returns:
//   - []kernel.UUID: the eligible interpreter ids, deterministically ordered
//   - Tier: the tier whose rules produced the pool
//   - error: validation errors, or a conflict if the order is resolved
//
// The tier follows the order's escalation progress: tier one until the
// first search completes, tier two afterwards. An empty result is not an
// error; the sweep escalates empty tiers by deadline.
func (m Matcher) ComputeCandidates(o *order.Order, pool []*interpreter.Profile) ([]kernel.UUID, Tier, error) {
	if err := o.Validate(); err != nil {
		return nil, 0, err
	}
	if o.Status().IsTerminal() {
		return nil, 0, errs.NewConflictErrorWithCause(
			"order", o.ID().String(),
			fmt.Errorf("%s is not a matchable status", o.Status().String()),
		)
	}

	tier := Tier1
	if o.IsFirstSearchCompleted() {
		tier = Tier2
	}

	eligible := make([]*interpreter.Profile, 0, len(pool))
	for _, profile := range pool {
		if err := profile.Validate(); err != nil {
			return nil, 0, err
		}
		if o.Candidates().IsRejected(profile.ID()) {
			continue
		}
		if !m.matchesSession(o.Details(), profile, tier) {
			continue
		}
		if !m.matchesScope(o.Details(), profile, tier) {
			continue
		}
		eligible = append(eligible, profile)
	}

	sortProfiles(eligible)

	ids := make([]kernel.UUID, 0, len(eligible))
	for _, profile := range eligible {
		ids = append(ids, profile.ID())
	}
	return ids, tier, nil
}

// matchesSession checks the session constraints that hold in every tier:
// language pair, interpreter type, scheduling availability, presence for
// on-demand sessions, and the gender preference unless the policy relaxes
// it in the second tier.
func (m Matcher) matchesSession(d order.Details, profile *interpreter.Profile, tier Tier) bool {
	if !profile.Speaks(d.Languages) {
		return false
	}
	if profile.Kind() != d.InterpreterType {
		return false
	}
	if !profile.IsAvailableFor(d.Scheduling) {
		return false
	}
	if d.Scheduling == kernel.OnDemand && !profile.IsOnline() {
		return false
	}
	if d.GenderPreference != interpreter.GenderAny && profile.Gender() != d.GenderPreference {
		if tier != Tier2 || !m.policy.RelaxGenderPreference {
			return false
		}
	}
	return true
}

// matchesScope applies the company scoping rules of the tier.
func (m Matcher) matchesScope(d order.Details, profile *interpreter.Profile, tier Tier) bool {
	if !d.CompanyHasInterpreters || d.OperatedByCompanyID == nil {
		return true
	}
	if profile.WorksFor(*d.OperatedByCompanyID) {
		return true
	}
	return tier == Tier2 && m.policy.RelaxCompanyScope && profile.AcceptsOvertimeRates()
}

func sortProfiles(profiles []*interpreter.Profile) {
	sort.Slice(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.Rating() != b.Rating() {
			return a.Rating() > b.Rating()
		}
		if !a.OnlineSince().Equal(b.OnlineSince()) {
			return a.OnlineSince().After(b.OnlineSince())
		}
		idA, idB := a.ID().Bytes(), b.ID().Bytes()
		return bytes.Compare(idA[:], idB[:]) < 0
	})
}
