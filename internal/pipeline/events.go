package pipeline

import "github.com/sells-group/leadscout/internal/model"

// EventType identifies one of the four stream event kinds.
type EventType string

const (
	// EventProgress is free-text status narration; zero or more per search.
	EventProgress EventType = "progress"
	// EventResult carries one analyzed lead; one per surviving record.
	EventResult EventType = "result"
	// EventComplete is the terminal success event.
	EventComplete EventType = "complete"
	// EventError is the terminal failure event. Results already emitted
	// before it remain valid.
	EventError EventType = "error"
)

// Event is one frame on the progress stream. Exactly one terminal event
// (complete or error) ends every stream, after which the channel closes.
type Event struct {
	Type    EventType   `json:"type"`
	Message string      `json:"message,omitempty"`
	Lead    *model.Lead `json:"lead,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}
