package capability

import "encoding/json"

// Event is one message from a review session's stream. Exactly one
// terminal ResultEvent is expected per session; everything else is a
// transient control signal, not retained past processing.
type Event interface {
	event()
}

// ToolUseEvent reports that the engine invoked a tool.
type ToolUseEvent struct {
	// Tool is the invoked tool's name (e.g., "Read", "Grep", "Task").
	Tool string
	// Input is the tool's input mapping as the engine sent it.
	Input map[string]any
}

func (ToolUseEvent) event() {}

// TextEvent carries a fragment of the engine's intermediate commentary.
type TextEvent struct {
	Text string
}

func (TextEvent) event() {}

// ResultEvent is the terminal event of a session.
type ResultEvent struct {
	// Subtype is the completion status (e.g., "success",
	// "error_max_turns").
	Subtype string
	// IsError reports whether the engine flagged the run as failed.
	IsError bool
	// Payload is the structured output, nil when the engine returned
	// none.
	Payload json.RawMessage
	// TotalCostUSD is the cumulative monetary cost of the session.
	TotalCostUSD float64
	// NumTurns is the number of reasoning turns the session consumed.
	NumTurns int
}

func (ResultEvent) event() {}
