package order_test

import (
	"testing"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateSet_Invite(t *testing.T) {
	t.Run("invites keep their order", func(t *testing.T) {
		set := order.NewCandidateSet()
		a, b := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, set.Invite(a))
		require.NoError(t, set.Invite(b))

		assert.Equal(t, []kernel.UUID{a, b}, set.Matched())
	})

	t.Run("inviting a matched id is a no-op", func(t *testing.T) {
		set := order.NewCandidateSet()
		a := kernel.NewUUID()

		require.NoError(t, set.Invite(a))
		require.NoError(t, set.Invite(a))

		assert.Len(t, set.Matched(), 1)
	})

	t.Run("inviting a rejected id fails", func(t *testing.T) {
		set := order.NewCandidateSet()
		a := kernel.NewUUID()
		require.NoError(t, set.Invite(a))
		require.NoError(t, set.MoveToRejected(a))

		require.ErrorIs(t, set.Invite(a), order.ErrAlreadyRejected)
	})

	t.Run("zero-value id is rejected", func(t *testing.T) {
		set := order.NewCandidateSet()
		require.Error(t, set.Invite(kernel.UUID{}))
	})
}

func TestCandidateSet_MoveToRejected(t *testing.T) {
	t.Run("moves id between sets", func(t *testing.T) {
		set := order.NewCandidateSet()
		a, b := kernel.NewUUID(), kernel.NewUUID()
		require.NoError(t, set.Invite(a))
		require.NoError(t, set.Invite(b))

		require.NoError(t, set.MoveToRejected(a))

		assert.Equal(t, []kernel.UUID{b}, set.Matched())
		assert.Equal(t, []kernel.UUID{a}, set.Rejected())
		assert.True(t, set.IsRejected(a))
		assert.False(t, set.IsMatched(a))
	})

	t.Run("non-candidate fails", func(t *testing.T) {
		set := order.NewCandidateSet()
		require.ErrorIs(t, set.MoveToRejected(kernel.NewUUID()), order.ErrNotACandidate)
	})
}

func TestCandidateSet_Replace(t *testing.T) {
	t.Run("rejected ids never reappear", func(t *testing.T) {
		set := order.NewCandidateSet()
		a, b, c := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
		require.NoError(t, set.Invite(a))
		require.NoError(t, set.MoveToRejected(a))

		newly := set.Replace([]kernel.UUID{a, b, c})

		assert.Equal(t, []kernel.UUID{b, c}, set.Matched())
		assert.Equal(t, []kernel.UUID{b, c}, newly)
	})

	t.Run("already matched ids are not reported as new", func(t *testing.T) {
		set := order.NewCandidateSet()
		a, b := kernel.NewUUID(), kernel.NewUUID()
		require.NoError(t, set.Invite(a))

		newly := set.Replace([]kernel.UUID{a, b})

		assert.Equal(t, []kernel.UUID{a, b}, set.Matched())
		assert.Equal(t, []kernel.UUID{b}, newly)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		set := order.NewCandidateSet()
		a := kernel.NewUUID()

		newly := set.Replace([]kernel.UUID{a, a})

		assert.Equal(t, []kernel.UUID{a}, set.Matched())
		assert.Equal(t, []kernel.UUID{a}, newly)
	})
}

func TestCandidateSet_ForceInvite(t *testing.T) {
	t.Run("pulls a rejected id back into the pool", func(t *testing.T) {
		set := order.NewCandidateSet()
		a := kernel.NewUUID()
		require.NoError(t, set.Invite(a))
		require.NoError(t, set.MoveToRejected(a))

		require.NoError(t, set.ForceInvite(a))

		assert.True(t, set.IsMatched(a))
		assert.False(t, set.IsRejected(a))
	})
}

func TestRestoreCandidateSet(t *testing.T) {
	t.Run("restores both sets", func(t *testing.T) {
		a, b := kernel.NewUUID(), kernel.NewUUID()
		set, err := order.RestoreCandidateSet([]kernel.UUID{a}, []kernel.UUID{b})

		require.NoError(t, err)
		assert.True(t, set.IsMatched(a))
		assert.True(t, set.IsRejected(b))
	})

	t.Run("intersecting sets fail", func(t *testing.T) {
		a := kernel.NewUUID()
		_, err := order.RestoreCandidateSet([]kernel.UUID{a}, []kernel.UUID{a})
		require.Error(t, err)
	})
}
