package tickets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_TransitionsAreMonotonic(t *testing.T) {
	assert.True(t, StatusAvailable.CanTransitionTo(StatusSold))
	assert.True(t, StatusSold.CanTransitionTo(StatusScanned))

	// No path ever leads back toward entry.
	assert.False(t, StatusScanned.CanTransitionTo(StatusSold))
	assert.False(t, StatusScanned.CanTransitionTo(StatusAvailable))
	assert.False(t, StatusSold.CanTransitionTo(StatusAvailable))

	// AVAILABLE cannot jump straight to SCANNED; a sale must happen first.
	assert.False(t, StatusAvailable.CanTransitionTo(StatusScanned))

	// Administrative statuses are dead ends.
	for _, terminal := range []Status{StatusExpired, StatusCancelled, StatusReturned, StatusInvalid} {
		assert.False(t, terminal.CanTransitionTo(StatusSold), "%s must not re-enter the sale path", terminal)
		assert.False(t, terminal.CanTransitionTo(StatusScanned), "%s must not reach entry", terminal)
	}
}

func TestOutcome_EventPastAlias(t *testing.T) {
	// Only EVENT_ENDED is emitted, but the legacy alias still maps to the
	// same operator message.
	assert.Equal(t, OutcomeEventEnded.Message(), OutcomeEventPast.Message())
	assert.False(t, OutcomeEventPast.IsSuccess())
}
