package chat

// State is the phase of a conversation cycle.
type State int

const (
	// StateIdle accepts a new submission.
	StateIdle State = iota
	// StateAwaitingFirstCompletion waits for the answer to the user message.
	StateAwaitingFirstCompletion
	// StateAwaitingToolResult waits for the price lookup.
	StateAwaitingToolResult
	// StateAwaitingSecondCompletion waits for the answer built on the prices.
	StateAwaitingSecondCompletion
)

// String returns the state name used in logs and API responses.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFirstCompletion:
		return "awaiting_first_completion"
	case StateAwaitingToolResult:
		return "awaiting_tool_result"
	case StateAwaitingSecondCompletion:
		return "awaiting_second_completion"
	default:
		return "unknown"
	}
}
