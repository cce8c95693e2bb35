// Package stream defines the event protocol between producers (plugin
// executor, completion relay) and the outbound response writer.
package stream

// EventType discriminates Event.
type EventType int

const (
	// EventStatus is progress or informational text shown to the user.
	EventStatus EventType = iota
	// EventHeartbeat is periodic "still working" text during slow calls.
	EventHeartbeat
	// EventDelta is incremental completion text, written verbatim.
	EventDelta
	// EventError is a user-facing failure; it terminates the stream.
	EventError
	// EventEnd terminates the stream normally.
	EventEnd
)

// Event is one unit of outbound stream traffic.
type Event struct {
	Type EventType
	Text string
	Err  error
}

func Status(text string) Event {
	return Event{Type: EventStatus, Text: text}
}

func Heartbeat(text string) Event {
	return Event{Type: EventHeartbeat, Text: text}
}

func Delta(text string) Event {
	return Event{Type: EventDelta, Text: text}
}

// Error builds a terminal error event. Text is what the client sees;
// err carries the underlying cause for logging only.
func Error(text string, err error) Event {
	return Event{Type: EventError, Text: text, Err: err}
}

func End() Event {
	return Event{Type: EventEnd}
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventError || e.Type == EventEnd
}
