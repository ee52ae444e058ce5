package order_test

import (
	"testing"
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testDetails(t *testing.T) order.Details {
	t.Helper()

	languages, err := kernel.NewLanguagePair("en", "de")
	require.NoError(t, err)
	window, err := kernel.NewTimeWindow(testStart, testStart.Add(time.Hour))
	require.NoError(t, err)

	return order.Details{
		PlatformID:      "ORD-2026-0001",
		Languages:       languages,
		Window:          window,
		Communication:   kernel.Video,
		Scheduling:      kernel.OnDemand,
		InterpreterType: interpreter.Professional,
	}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), testDetails(t))
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts created with search needed", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.Created, o.Status())
		assert.True(t, o.IsSearchNeeded())
		assert.Nil(t, o.AssignedInterpreter())
		assert.Nil(t, o.EndSearchTime())
		assert.Empty(t, o.Candidates().Matched())
		assert.NoError(t, o.Validate())
	})

	t.Run("requires a platform id", func(t *testing.T) {
		details := testDetails(t)
		details.PlatformID = ""

		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), details)
		require.Error(t, err)
	})

	t.Run("company scoping requires an operating company", func(t *testing.T) {
		details := testDetails(t)
		details.CompanyHasInterpreters = true

		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), details)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Assign(t *testing.T) {
	t.Run("assigns a matched candidate", func(t *testing.T) {
		o := newTestOrder(t)
		a := kernel.NewUUID()
		require.NoError(t, o.StartSearch(testStart.Add(time.Minute)))
		_, err := o.SetCandidates([]kernel.UUID{a})
		require.NoError(t, err)

		require.NoError(t, o.Assign(a))

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.AssignedInterpreter())
		assert.True(t, o.AssignedInterpreter().IsEqual(a))
		assert.False(t, o.IsSearchNeeded())
		assert.Empty(t, o.Candidates().Matched())
	})

	t.Run("non-candidate is a conflict", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.Assign(kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("second assignment is a conflict", func(t *testing.T) {
		o := newTestOrder(t)
		a, b := kernel.NewUUID(), kernel.NewUUID()
		_, err := o.SetCandidates([]kernel.UUID{a, b})
		require.NoError(t, err)

		require.NoError(t, o.Assign(a))
		require.ErrorIs(t, o.Assign(b), errs.ErrConflict)
	})

	t.Run("search stays closed after assignment", func(t *testing.T) {
		o := newTestOrder(t)
		a := kernel.NewUUID()
		_, err := o.SetCandidates([]kernel.UUID{a})
		require.NoError(t, err)
		require.NoError(t, o.Assign(a))

		require.ErrorIs(t, o.MarkSearchNeeded(), errs.ErrConflict)
		_, err = o.SetCandidates([]kernel.UUID{kernel.NewUUID()})
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_RejectCandidate(t *testing.T) {
	t.Run("moves candidate to rejected and reopens search", func(t *testing.T) {
		o := newTestOrder(t)
		a, b := kernel.NewUUID(), kernel.NewUUID()
		_, err := o.SetCandidates([]kernel.UUID{a, b})
		require.NoError(t, err)
		assert.False(t, o.IsSearchNeeded())

		require.NoError(t, o.RejectCandidate(a))

		assert.True(t, o.IsSearchNeeded())
		assert.True(t, o.Candidates().IsRejected(a))
		assert.Equal(t, []kernel.UUID{b}, o.Candidates().Matched())
	})

	t.Run("rejected candidate cannot accept", func(t *testing.T) {
		o := newTestOrder(t)
		a := kernel.NewUUID()
		_, err := o.SetCandidates([]kernel.UUID{a})
		require.NoError(t, err)
		require.NoError(t, o.RejectCandidate(a))

		require.ErrorIs(t, o.Assign(a), errs.ErrConflict)
	})

	t.Run("non-candidate is a conflict", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.RejectCandidate(kernel.NewUUID()), errs.ErrConflict)
	})

	t.Run("rejected ids never reappear on recomputation", func(t *testing.T) {
		o := newTestOrder(t)
		a, b := kernel.NewUUID(), kernel.NewUUID()
		_, err := o.SetCandidates([]kernel.UUID{a, b})
		require.NoError(t, err)
		require.NoError(t, o.RejectCandidate(a))

		newly, err := o.SetCandidates([]kernel.UUID{a, b})
		require.NoError(t, err)

		assert.Empty(t, newly)
		assert.Equal(t, []kernel.UUID{b}, o.Candidates().Matched())
	})
}

func TestOrder_Escalation(t *testing.T) {
	t.Run("full escalation path", func(t *testing.T) {
		o := newTestOrder(t)
		tier1Deadline := testStart.Add(2 * time.Minute)
		require.NoError(t, o.StartSearch(tier1Deadline))
		assert.Equal(t, order.Tier1Searching, o.Status())

		assert.False(t, o.Tier1Expired(tier1Deadline.Add(-time.Second)))
		assert.True(t, o.Tier1Expired(tier1Deadline))

		tier2Deadline := tier1Deadline.Add(5 * time.Minute)
		require.NoError(t, o.EscalateToTier2(tier2Deadline))
		assert.Equal(t, order.Tier2Searching, o.Status())
		assert.True(t, o.IsFirstSearchCompleted())
		assert.True(t, o.IsSearchNeeded())

		assert.True(t, o.Tier2Expired(tier2Deadline))
		notifyAt := tier2Deadline.Add(time.Minute)
		restartAt := tier2Deadline.Add(30 * time.Minute)
		require.NoError(t, o.EscalateToAdmin(notifyAt, restartAt))
		assert.Equal(t, order.AdminEscalated, o.Status())
		assert.True(t, o.IsSecondSearchCompleted())

		assert.False(t, o.RestartDue(restartAt.Add(-time.Second)))
		assert.True(t, o.RestartDue(restartAt))

		require.NoError(t, o.RestartSearch(restartAt.Add(2*time.Minute)))
		assert.Equal(t, order.Tier1Searching, o.Status())
		assert.False(t, o.IsFirstSearchCompleted())
		assert.False(t, o.IsSecondSearchCompleted())
		assert.True(t, o.IsSearchNeeded())
	})

	t.Run("deadlines only move forward", func(t *testing.T) {
		o := newTestOrder(t)
		deadline := testStart.Add(10 * time.Minute)
		require.NoError(t, o.StartSearch(deadline))

		require.Error(t, o.EscalateToTier2(deadline.Add(-time.Minute)))
		require.NoError(t, o.EscalateToTier2(deadline))
	})

	t.Run("restart keeps permanently rejected ids", func(t *testing.T) {
		o := newTestOrder(t)
		a := kernel.NewUUID()
		require.NoError(t, o.StartSearch(testStart.Add(time.Minute)))
		_, err := o.SetCandidates([]kernel.UUID{a})
		require.NoError(t, err)
		require.NoError(t, o.RejectCandidate(a))
		require.NoError(t, o.EscalateToTier2(testStart.Add(2*time.Minute)))
		require.NoError(t, o.EscalateToAdmin(testStart.Add(3*time.Minute), testStart.Add(4*time.Minute)))

		require.NoError(t, o.RestartSearch(testStart.Add(5*time.Minute)))

		assert.True(t, o.Candidates().IsRejected(a))
		assert.Empty(t, o.Candidates().Matched())
	})

	t.Run("restart before operator alert is invalid", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.StartSearch(testStart.Add(time.Minute)))
		require.NoError(t, o.EscalateToTier2(testStart.Add(2*time.Minute)))

		notifyAt := testStart.Add(3 * time.Minute)
		require.Error(t, o.EscalateToAdmin(notifyAt, notifyAt.Add(-time.Second)))
	})
}

func TestOrder_Refuse(t *testing.T) {
	t.Run("refusal is terminal and withdraws invitations", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.SetCandidates([]kernel.UUID{kernel.NewUUID()})
		require.NoError(t, err)

		require.NoError(t, o.Refuse())

		assert.Equal(t, order.Refused, o.Status())
		assert.Empty(t, o.Candidates().Matched())
		require.ErrorIs(t, o.Refuse(), errs.ErrConflict)
	})
}

func TestOrder_AddCandidate(t *testing.T) {
	t.Run("operator override bypasses rejection history", func(t *testing.T) {
		o := newTestOrder(t)
		a := kernel.NewUUID()
		_, err := o.SetCandidates([]kernel.UUID{a})
		require.NoError(t, err)
		require.NoError(t, o.RejectCandidate(a))

		require.NoError(t, o.AddCandidate(a))

		assert.True(t, o.Candidates().IsMatched(a))
		require.NoError(t, o.Assign(a))
	})
}

func TestOrder_NextOccurrence(t *testing.T) {
	t.Run("weekly schedule with two repeats yields two clones", func(t *testing.T) {
		o := newTestOrder(t)
		firstRepeat := testStart.AddDate(0, 0, 7)
		schedule, err := order.NewRepeatSchedule(order.Weekly, 2, firstRepeat)
		require.NoError(t, err)
		o.SetRepeat(schedule)

		require.True(t, o.RepeatDue(firstRepeat))
		first, err := o.NextOccurrence(kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)
		assert.Equal(t, firstRepeat, first.Details().Window.Start())
		assert.Equal(t, o.Details().Window.Duration(), first.Details().Window.Duration())
		assert.Nil(t, first.Repeat())
		assert.Equal(t, 1, o.Repeat().Remaining())

		secondRepeat := firstRepeat.AddDate(0, 0, 7)
		require.True(t, o.RepeatDue(secondRepeat))
		second, err := o.NextOccurrence(kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)
		assert.Equal(t, secondRepeat, second.Details().Window.Start())
		assert.Equal(t, 0, o.Repeat().Remaining())

		assert.False(t, o.RepeatDue(secondRepeat.AddDate(0, 0, 7)))
		_, err = o.NextOccurrence(kernel.NewUUID(), kernel.NewUUID())
		require.ErrorIs(t, err, order.ErrNoRepeatsRemaining)
	})

	t.Run("one-off orders have no occurrences", func(t *testing.T) {
		o := newTestOrder(t)
		assert.False(t, o.RepeatDue(testStart))
		_, err := o.NextOccurrence(kernel.NewUUID(), kernel.NewUUID())
		require.ErrorIs(t, err, order.ErrNoRepeatsRemaining)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores a searching order", func(t *testing.T) {
		id, appointmentID := kernel.NewUUID(), kernel.NewUUID()
		a := kernel.NewUUID()
		candidates, err := order.RestoreCandidateSet([]kernel.UUID{a}, nil)
		require.NoError(t, err)
		deadline := testStart.Add(time.Minute)

		o, err := order.RestoreOrder(order.Snapshot{
			ID:            id,
			AppointmentID: appointmentID,
			Details:       testDetails(t),
			Candidates:    candidates,
			Status:        order.Tier1Searching,
			EndSearchTime: &deadline,
			Version:       3,
		})

		require.NoError(t, err)
		assert.Equal(t, order.Tier1Searching, o.Status())
		assert.True(t, o.Candidates().IsMatched(a))
		assert.Equal(t, int64(3), o.Version())
	})

	t.Run("assigned order without interpreter is invalid", func(t *testing.T) {
		_, err := order.RestoreOrder(order.Snapshot{
			ID:            kernel.NewUUID(),
			AppointmentID: kernel.NewUUID(),
			Details:       testDetails(t),
			Status:        order.Assigned,
		})
		require.Error(t, err)
	})
}
