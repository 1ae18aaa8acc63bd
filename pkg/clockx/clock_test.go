package clockx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClock_New_DefaultCapacity(t *testing.T) {
	c := New(0)
	require.NotNil(t, c)
	require.Equal(t, 1, c.Capacity())
	require.Equal(t, 0, c.Hand())
}

func TestClock_New_HandStartsOnLastSlot(t *testing.T) {
	c := New(4)
	require.Equal(t, 3, c.Hand())

	// First advance wraps to slot 0.
	require.Equal(t, 0, c.Advance())
	require.Equal(t, 1, c.Advance())
}

func TestClock_Sweep_FirstCandidate(t *testing.T) {
	c := New(3)

	var seen []int
	slot, ok, err := c.Sweep(func(s int) (bool, error) {
		seen = append(seen, s)
		return true, nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, slot)
	require.Equal(t, []int{0}, seen)

	// Hand stays on the victim; next sweep starts after it.
	slot, ok, err = c.Sweep(func(s int) (bool, error) { return true, nil })
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, slot)
}

func TestClock_Sweep_SecondChance(t *testing.T) {
	c := New(3)
	ref := []bool{true, true, true}

	slot, ok, err := c.Sweep(func(s int) (bool, error) {
		if ref[s] {
			ref[s] = false
			return false, nil
		}
		return true, nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	// All ref bits cleared on the first turn; slot 0 is picked on the second.
	require.Equal(t, 0, slot)
	require.Equal(t, []bool{false, false, false}, ref)
}

func TestClock_Sweep_ExhaustsAfterTwoTurns(t *testing.T) {
	c := New(4)

	calls := 0
	slot, ok, err := c.Sweep(func(int) (bool, error) {
		calls++
		return false, nil
	})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, -1, slot)
	require.Equal(t, 8, calls)

	// Two full turns leave the hand where it started.
	require.Equal(t, 3, c.Hand())
}

func TestClock_Sweep_VictimOnLastStep(t *testing.T) {
	c := New(3)

	calls := 0
	slot, ok, err := c.Sweep(func(int) (bool, error) {
		calls++
		return calls == 6, nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, slot)
}

func TestClock_Sweep_PropagatesError(t *testing.T) {
	c := New(2)
	boom := errors.New("boom")

	slot, ok, err := c.Sweep(func(s int) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
	require.Equal(t, 0, slot)
}
