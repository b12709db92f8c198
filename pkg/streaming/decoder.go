package streaming

import (
	"encoding/json"
	"strings"
)

// DecoderState tracks progress of a partial-JSON line stream.
type DecoderState string

// Decoder states. A decoder starts Empty, moves to Partial once any line
// parses successfully, and reaches Complete when the stream terminates.
const (
	StateEmpty    DecoderState = "empty"
	StatePartial  DecoderState = "partial"
	StateComplete DecoderState = "complete"
)

// Decoder consumes a byte stream split at arbitrary chunk boundaries and
// applies the latest fully-parsed JSON object from each "data: " line.
// Lines that fail to parse are skipped; no line is ever applied twice.
// This is the explicit form of the apply-latest-partial-and-skip-invalid
// contract for streamed agent reports.
type Decoder[T any] struct {
	buf     strings.Builder
	latest  T
	applied int
	skipped int
	state   DecoderState
}

// NewDecoder creates a Decoder in the Empty state.
func NewDecoder[T any]() *Decoder[T] {
	return &Decoder[T]{state: StateEmpty}
}

// Feed appends a chunk to the decoder and processes every line completed by
// it. Incomplete trailing data stays buffered until a later chunk or Finish
// completes it. Safe to call with chunks split anywhere, including mid-rune
// of the protocol marker.
func (d *Decoder[T]) Feed(chunk []byte) {
	if d.state == StateComplete {
		return
	}

	d.buf.Write(chunk)
	content := d.buf.String()

	lines := strings.Split(content, "\n")
	// The final element is an unterminated remainder; keep it buffered.
	remainder := lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		d.applyLine(line)
		if d.state == StateComplete {
			remainder = ""
			break
		}
	}

	d.buf.Reset()
	d.buf.WriteString(remainder)
}

// Finish processes any buffered remainder as a final line and marks the
// decoder Complete. Use when the underlying stream closes without a
// terminator line.
func (d *Decoder[T]) Finish() {
	if d.state == StateComplete {
		return
	}
	if remainder := d.buf.String(); remainder != "" {
		d.applyLine(remainder)
		d.buf.Reset()
	}
	d.state = StateComplete
}

// Latest returns the most recently applied object and whether any line has
// been applied.
func (d *Decoder[T]) Latest() (T, bool) {
	return d.latest, d.applied > 0
}

// State returns the current decoder state.
func (d *Decoder[T]) State() DecoderState {
	return d.state
}

// Applied returns the number of lines successfully parsed and applied.
func (d *Decoder[T]) Applied() int {
	return d.applied
}

// Skipped returns the number of data lines that failed to parse and were skipped.
func (d *Decoder[T]) Skipped() int {
	return d.skipped
}

func (d *Decoder[T]) applyLine(line string) {
	line = strings.TrimRight(line, "\r")

	payload, found := strings.CutPrefix(line, DataPrefix)
	if !found {
		// Not a protocol line; ignore (blank separators, comments).
		return
	}

	if strings.TrimSpace(payload) == DoneMarker {
		d.state = StateComplete
		return
	}

	var value T
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		// Truncated or malformed fragment; skip and continue.
		d.skipped++
		return
	}

	d.latest = value
	d.applied++
	if d.state == StateEmpty {
		d.state = StatePartial
	}
}
