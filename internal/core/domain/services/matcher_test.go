package services_test

import (
	"bytes"
	"testing"
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/domain/services"
	"interpreting/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchStart = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func enDePair(t *testing.T) kernel.LanguagePair {
	t.Helper()
	pair, err := kernel.NewLanguagePair("en", "de")
	require.NoError(t, err)
	return pair
}

func matchOrder(t *testing.T, mutate func(*order.Details)) *order.Order {
	t.Helper()

	window, err := kernel.NewTimeWindow(matchStart, matchStart.Add(time.Hour))
	require.NoError(t, err)

	details := order.Details{
		PlatformID:      "ORD-2026-0042",
		Languages:       enDePair(t),
		Window:          window,
		Communication:   kernel.Video,
		Scheduling:      kernel.OnDemand,
		InterpreterType: interpreter.Professional,
	}
	if mutate != nil {
		mutate(&details)
	}

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), details)
	require.NoError(t, err)
	return o
}

type profileOption func(*interpreter.Profile)

func onlineSince(since time.Time) profileOption {
	return func(p *interpreter.Profile) { p.SetOnline(since) }
}

func withOvertimeRates() profileOption {
	return func(p *interpreter.Profile) { p.SetAcceptsOvertimeRates(true) }
}

func matchProfile(t *testing.T, companyID *kernel.UUID, rating float64, opts ...profileOption) *interpreter.Profile {
	t.Helper()

	p, err := interpreter.NewProfile(
		kernel.NewUUID(),
		companyID,
		[]kernel.LanguagePair{enDePair(t)},
		interpreter.Professional,
		interpreter.Female,
		rating,
	)
	require.NoError(t, err)

	p.SetAvailableFor(kernel.OnDemand)
	p.SetOnline(matchStart)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func newMatcher(t *testing.T) services.Matcher {
	t.Helper()
	m, err := services.NewMatcher(services.DefaultTierPolicy())
	require.NoError(t, err)
	return m
}

func TestNewMatcher(t *testing.T) {
	t.Run("rejects a zero policy", func(t *testing.T) {
		_, err := services.NewMatcher(services.TierPolicy{})
		require.Error(t, err)
	})
}

func TestMatcher_ComputeCandidates(t *testing.T) {
	t.Run("orders by rating then recency then id", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, nil)
		low := matchProfile(t, nil, 3.5)
		high := matchProfile(t, nil, 4.9)
		recent := matchProfile(t, nil, 4.9, onlineSince(matchStart.Add(time.Minute)))

		ids, tier, err := m.ComputeCandidates(o, []*interpreter.Profile{low, high, recent})

		require.NoError(t, err)
		assert.Equal(t, services.Tier1, tier)
		assert.Equal(t, []kernel.UUID{recent.ID(), high.ID(), low.ID()}, ids)
	})

	t.Run("is deterministic given unchanged inputs", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, nil)
		pool := []*interpreter.Profile{
			matchProfile(t, nil, 4.0),
			matchProfile(t, nil, 4.0),
			matchProfile(t, nil, 4.0),
		}

		first, _, err := m.ComputeCandidates(o, pool)
		require.NoError(t, err)
		second, _, err := m.ComputeCandidates(o, []*interpreter.Profile{pool[2], pool[0], pool[1]})
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("breaks full ties by ascending id", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, nil)
		pool := []*interpreter.Profile{
			matchProfile(t, nil, 4.0),
			matchProfile(t, nil, 4.0),
			matchProfile(t, nil, 4.0),
		}

		ids, _, err := m.ComputeCandidates(o, pool)
		require.NoError(t, err)

		require.Len(t, ids, 3)
		for i := 1; i < len(ids); i++ {
			prev, curr := ids[i-1].Bytes(), ids[i].Bytes()
			assert.Negative(t, bytes.Compare(prev[:], curr[:]))
		}
	})

	t.Run("filters session mismatches", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, nil)

		frPair, err := kernel.NewLanguagePair("en", "fr")
		require.NoError(t, err)
		wrongLanguage, err := interpreter.NewProfile(
			kernel.NewUUID(), nil, []kernel.LanguagePair{frPair},
			interpreter.Professional, interpreter.Female, 5)
		require.NoError(t, err)
		wrongLanguage.SetAvailableFor(kernel.OnDemand)
		wrongLanguage.SetOnline(matchStart)

		wrongKind, err := interpreter.NewProfile(
			kernel.NewUUID(), nil, []kernel.LanguagePair{enDePair(t)},
			interpreter.Community, interpreter.Female, 5)
		require.NoError(t, err)
		wrongKind.SetAvailableFor(kernel.OnDemand)
		wrongKind.SetOnline(matchStart)

		offline := matchProfile(t, nil, 5)
		offline.SetOffline()

		unavailable, err := interpreter.NewProfile(
			kernel.NewUUID(), nil, []kernel.LanguagePair{enDePair(t)},
			interpreter.Professional, interpreter.Female, 5)
		require.NoError(t, err)
		unavailable.SetOnline(matchStart)

		eligible := matchProfile(t, nil, 4)

		ids, _, err := m.ComputeCandidates(o, []*interpreter.Profile{
			wrongLanguage, wrongKind, offline, unavailable, eligible,
		})

		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{eligible.ID()}, ids)
	})

	t.Run("gender preference narrows the pool", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, func(d *order.Details) {
			d.GenderPreference = interpreter.Male
		})
		female := matchProfile(t, nil, 5)

		ids, _, err := m.ComputeCandidates(o, []*interpreter.Profile{female})

		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("rejected interpreters never reappear", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, nil)
		a := matchProfile(t, nil, 5)
		b := matchProfile(t, nil, 4)
		_, err := o.SetCandidates([]kernel.UUID{a.ID(), b.ID()})
		require.NoError(t, err)
		require.NoError(t, o.RejectCandidate(a.ID()))

		ids, _, err := m.ComputeCandidates(o, []*interpreter.Profile{a, b})

		require.NoError(t, err)
		assert.Equal(t, []kernel.UUID{b.ID()}, ids)
	})

	t.Run("resolved orders are a conflict", func(t *testing.T) {
		m := newMatcher(t)
		o := matchOrder(t, nil)
		require.NoError(t, o.Refuse())

		_, _, err := m.ComputeCandidates(o, nil)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestMatcher_CompanyScope(t *testing.T) {
	companyID := kernel.NewUUID()

	companyOrder := func(t *testing.T) *order.Order {
		t.Helper()
		return matchOrder(t, func(d *order.Details) {
			d.OperatedByCompanyID = &companyID
			d.OperatedByCompanyName = "Lingua Nord"
			d.CompanyHasInterpreters = true
		})
	}

	t.Run("tier one stays inside the company", func(t *testing.T) {
		m := newMatcher(t)
		o := companyOrder(t)
		inHouse := matchProfile(t, &companyID, 4)
		outside := matchProfile(t, nil, 5, withOvertimeRates())

		ids, tier, err := m.ComputeCandidates(o, []*interpreter.Profile{inHouse, outside})

		require.NoError(t, err)
		assert.Equal(t, services.Tier1, tier)
		assert.Equal(t, []kernel.UUID{inHouse.ID()}, ids)
	})

	t.Run("tier two admits overtime-rate acceptors", func(t *testing.T) {
		m := newMatcher(t)
		o := companyOrder(t)
		require.NoError(t, o.StartSearch(matchStart.Add(time.Minute)))
		require.NoError(t, o.EscalateToTier2(matchStart.Add(2*time.Minute)))

		inHouse := matchProfile(t, &companyID, 4)
		overtime := matchProfile(t, nil, 5, withOvertimeRates())
		regular := matchProfile(t, nil, 5)

		ids, tier, err := m.ComputeCandidates(o, []*interpreter.Profile{inHouse, overtime, regular})

		require.NoError(t, err)
		assert.Equal(t, services.Tier2, tier)
		assert.Equal(t, []kernel.UUID{overtime.ID(), inHouse.ID()}, ids)
	})

	t.Run("scope stays closed when the policy forbids relaxation", func(t *testing.T) {
		policy := services.DefaultTierPolicy()
		policy.RelaxCompanyScope = false
		m, err := services.NewMatcher(policy)
		require.NoError(t, err)

		o := companyOrder(t)
		require.NoError(t, o.StartSearch(matchStart.Add(time.Minute)))
		require.NoError(t, o.EscalateToTier2(matchStart.Add(2*time.Minute)))

		overtime := matchProfile(t, nil, 5, withOvertimeRates())

		ids, _, err := m.ComputeCandidates(o, []*interpreter.Profile{overtime})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestTierPolicy_Deadlines(t *testing.T) {
	policy := services.DefaultTierPolicy()
	now := matchStart

	assert.Equal(t, now.Add(policy.Tier1Duration), policy.Tier1Deadline(now))
	assert.Equal(t, now.Add(policy.Tier2Duration), policy.Tier2Deadline(now))

	notifyAt, restartAt := policy.AdminSchedule(now)
	assert.Equal(t, now.Add(policy.AdminNotifyDelay), notifyAt)
	assert.Equal(t, now.Add(policy.RestartDelay), restartAt)
	assert.False(t, restartAt.Before(notifyAt))
}
