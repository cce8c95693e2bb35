package stream

import (
	"io"
	"net/http"
	"sync"

	"github.com/hackmate-ai/hackmate/internal/logging"
)

const genericProblem = "🚨 There was a problem processing your request. Please try again."

// Merger owns a request's outbound stream. All event writes are serialized
// through it and it closes exactly once, no matter which producer finishes,
// fails or is abandoned mid-write.
type Merger struct {
	mu     sync.Mutex
	w      io.Writer
	flush  http.Flusher
	closed bool
}

// NewMerger wraps a response writer. Streaming headers are the caller's
// concern; the merger only sequences payload bytes.
func NewMerger(w http.ResponseWriter) *Merger {
	m := &Merger{w: w}
	if f, ok := w.(http.Flusher); ok {
		m.flush = f
	}
	return m
}

// Write emits one event and flushes. Status, heartbeat and error text get a
// trailing blank line so the client renders them as separate paragraphs;
// content deltas are written verbatim. Terminal events close the merger.
func (m *Merger) Write(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	switch ev.Type {
	case EventStatus, EventHeartbeat:
		m.write(ev.Text + "\n\n")
	case EventDelta:
		m.write(ev.Text)
	case EventError:
		text := ev.Text
		if text == "" {
			text = genericProblem
		}
		if ev.Err != nil {
			logging.Errorf("stream error: %v", ev.Err)
		}
		m.write(text + "\n\n")
		m.closed = true
	case EventEnd:
		m.closed = true
	}
}

// Consume drains events until the producer closes the channel or sends a
// terminal event.
func (m *Merger) Consume(events <-chan Event) {
	for ev := range events {
		m.Write(ev)
		if ev.Terminal() {
			break
		}
	}
	m.Close()
}

// Close terminates the stream. Safe to call any number of times.
func (m *Merger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Closed reports whether a terminal write happened.
func (m *Merger) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Merger) write(text string) {
	if _, err := io.WriteString(m.w, text); err != nil {
		// Client went away; stop writing but let the producer drain.
		m.closed = true
		return
	}
	if m.flush != nil {
		m.flush.Flush()
	}
}
