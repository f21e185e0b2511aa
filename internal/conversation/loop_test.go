package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextRespondsWithinBudget(t *testing.T) {
	for turns := 0; turns < MaxAssistantTurns; turns++ {
		assert.Equal(t, StateResponding, Next(turns, false), "turns=%d", turns)
	}
}

func TestNextEscalatesWhenBudgetSpent(t *testing.T) {
	assert.Equal(t, StateEscalated, Next(MaxAssistantTurns, false))
	assert.Equal(t, StateEscalated, Next(MaxAssistantTurns+3, false))
}

func TestResolutionWinsOverEscalation(t *testing.T) {
	// A confirmed resolution closes the ticket even with the budget spent.
	assert.Equal(t, StateClosed, Next(MaxAssistantTurns, true))
	assert.Equal(t, StateClosed, Next(0, true))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "responding", StateResponding.String())
	assert.Equal(t, "escalated", StateEscalated.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "unknown", State(42).String())
}
