// Package streaming provides server-sent event writing and tolerant
// line-oriented partial-JSON decoding for long-running agent responses.
package streaming

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DataPrefix is the stream-protocol marker that starts every event line.
const DataPrefix = "data: "

// DoneMarker terminates an event stream.
const DoneMarker = "[DONE]"

// EventStream writes JSON payloads as server-sent events, flushing after
// every event so clients observe progress as it happens.
type EventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEventStream prepares the response writer for server-sent events and
// returns a stream. Returns an error if the writer does not support flushing.
func NewEventStream(w http.ResponseWriter) (*EventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported by response writer")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &EventStream{w: w, flusher: flusher}, nil
}

// Send marshals event as JSON and writes it as a single data line.
func (s *EventStream) Send(event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.SendRaw(string(payload))
}

// SendRaw writes an already-encoded payload as a single data line.
func (s *EventStream) SendRaw(payload string) error {
	if _, err := fmt.Fprintf(s.w, "%s%s\n\n", DataPrefix, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Close writes the stream terminator.
func (s *EventStream) Close() error {
	if _, err := io.WriteString(s.w, DataPrefix+DoneMarker+"\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
