// Package conversation models the bounded automated-assistant loop that runs
// on a ticket's comment thread. The assistant gets a fixed budget of
// troubleshooting turns; once spent, the only remaining automated action is a
// handoff to a human team.
package conversation

// MaxAssistantTurns is the turn budget: the number of assistant-authored
// troubleshooting replies allowed before the loop must escalate.
const MaxAssistantTurns = 5

// State is the loop's decision for a newly arrived human comment.
type State int

const (
	// StateResponding: the assistant posts a contextual reply and the turn
	// counter advances by one.
	StateResponding State = iota
	// StateEscalated: the budget is spent; the assistant posts a handoff
	// message instead. Terminal for the loop and never counted as a turn.
	StateEscalated
	// StateClosed: the requester confirmed resolution; the ticket closes and
	// the turn budget logic is skipped entirely.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateResponding:
		return "responding"
	case StateEscalated:
		return "escalated"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Next decides the loop's reaction to a human comment, given the number of
// assistant turns already taken and whether the comment confirmed
// resolution. Resolution wins over everything; only troubleshooting replies
// consume budget.
func Next(turnsTaken int, resolutionConfirmed bool) State {
	if resolutionConfirmed {
		return StateClosed
	}
	if turnsTaken >= MaxAssistantTurns {
		return StateEscalated
	}
	return StateResponding
}
