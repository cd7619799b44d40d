package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	t.Run("happy path is fully chained", func(t *testing.T) {
		chain := []Status{
			StatusReserved, StatusRequested, StatusConfirmed,
			StatusCheckedIn, StatusInProgress, StatusCompleted,
		}
		for i := 0; i < len(chain)-1; i++ {
			assert.NoError(t, CanTransition(chain[i], chain[i+1]))
		}
	})

	t.Run("auto-confirm skips requested", func(t *testing.T) {
		assert.NoError(t, CanTransition(StatusReserved, StatusConfirmed))
	})

	t.Run("cancelled and no_show reachable from every non-terminal state", func(t *testing.T) {
		for _, s := range BlockingStatuses {
			assert.NoError(t, CanTransition(s, StatusCancelled), string(s))
			assert.NoError(t, CanTransition(s, StatusNoShow), string(s))
		}
	})

	t.Run("terminal states go nowhere", func(t *testing.T) {
		for _, from := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
			for _, to := range []Status{
				StatusReserved, StatusRequested, StatusConfirmed,
				StatusCheckedIn, StatusInProgress, StatusCompleted,
				StatusCancelled, StatusNoShow,
			} {
				err := CanTransition(from, to)
				assert.Error(t, err, "%s -> %s", from, to)
				assert.IsType(t, &InvalidTransitionError{}, err)
			}
		}
	})

	t.Run("no skipping forward", func(t *testing.T) {
		assert.Error(t, CanTransition(StatusReserved, StatusCheckedIn))
		assert.Error(t, CanTransition(StatusConfirmed, StatusInProgress))
		assert.Error(t, CanTransition(StatusConfirmed, StatusCompleted))
	})

	t.Run("no going backward", func(t *testing.T) {
		assert.Error(t, CanTransition(StatusConfirmed, StatusReserved))
		assert.Error(t, CanTransition(StatusInProgress, StatusCheckedIn))
	})
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.True(t, IsTerminal(StatusNoShow))
	assert.False(t, IsTerminal(StatusReserved))
	assert.False(t, IsTerminal(StatusConfirmed))
}

func TestIsBlocking(t *testing.T) {
	assert.True(t, IsBlocking(StatusReserved))
	assert.True(t, IsBlocking(StatusInProgress))
	assert.False(t, IsBlocking(StatusCancelled))
	assert.False(t, IsBlocking(StatusCompleted))
	assert.False(t, IsBlocking(StatusNoShow))
}

func TestFreesInterval(t *testing.T) {
	assert.True(t, FreesInterval(StatusConfirmed))
	assert.True(t, FreesInterval(StatusCheckedIn))
	assert.True(t, FreesInterval(StatusRequested))

	// A lapsed hold never counted as a committed slot.
	assert.False(t, FreesInterval(StatusReserved))
	assert.False(t, FreesInterval(StatusCancelled))
}
