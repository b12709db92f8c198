package streaming

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type report struct {
	Probability float64 `json:"probability"`
	Summary     string  `json:"summary"`
}

func TestDecoderAppliesLatestLine(t *testing.T) {
	d := NewDecoder[report]()

	d.Feed([]byte("data: {\"probability\": 0.2}\n"))
	d.Feed([]byte("data: {\"probability\": 0.4, \"summary\": \"partial\"}\n"))
	d.Feed([]byte("data: {\"probability\": 0.35, \"summary\": \"final\"}\n"))
	d.Finish()

	latest, ok := d.Latest()
	if !ok {
		t.Fatal("expected an applied object")
	}

	if latest.Probability != 0.35 {
		t.Errorf("expected probability 0.35, got %v", latest.Probability)
	}

	if latest.Summary != "final" {
		t.Errorf("expected summary %q, got %q", "final", latest.Summary)
	}

	if d.Applied() != 3 {
		t.Errorf("expected 3 applied lines, got %d", d.Applied())
	}
}

func TestDecoderSkipsMalformedLines(t *testing.T) {
	d := NewDecoder[report]()

	d.Feed([]byte("data: {\"probability\": 0.2}\n"))
	d.Feed([]byte("data: {\"probability\": 0.9, \"summ\n"))
	d.Feed([]byte("data: not json at all\n"))
	d.Finish()

	latest, ok := d.Latest()
	if !ok {
		t.Fatal("expected an applied object")
	}

	if latest.Probability != 0.2 {
		t.Errorf("malformed line overwrote latest: got %v", latest.Probability)
	}

	if d.Skipped() != 2 {
		t.Errorf("expected 2 skipped lines, got %d", d.Skipped())
	}
}

func TestDecoderArbitraryChunkBoundaries(t *testing.T) {
	stream := "data: {\"probability\": 0.1}\n" +
		"data: {\"probability\": 0.5, \"summary\": \"mid\"}\n" +
		"data: {\"probability\": 0.3, \"summary\": \"done\"}\n" +
		"data: [DONE]\n"

	// Split the same stream at every possible single boundary, including
	// mid-marker and mid-payload. The outcome must not change.
	for cut := 0; cut <= len(stream); cut++ {
		d := NewDecoder[report]()
		d.Feed([]byte(stream[:cut]))
		d.Feed([]byte(stream[cut:]))

		if d.State() != StateComplete {
			t.Fatalf("cut %d: expected complete state, got %s", cut, d.State())
		}

		latest, ok := d.Latest()
		if !ok {
			t.Fatalf("cut %d: expected an applied object", cut)
		}

		if latest.Probability != 0.3 || latest.Summary != "done" {
			t.Errorf("cut %d: wrong final object: %+v", cut, latest)
		}

		if d.Applied() != 3 {
			t.Errorf("cut %d: expected 3 applied lines, got %d (no double-apply)", cut, d.Applied())
		}

		if d.Skipped() != 0 {
			t.Errorf("cut %d: expected 0 skipped lines, got %d", cut, d.Skipped())
		}
	}
}

func TestDecoderByteAtATime(t *testing.T) {
	stream := "data: {\"probability\": 0.25, \"summary\": \"steady\"}\ndata: [DONE]\n"

	d := NewDecoder[report]()
	for i := range stream {
		d.Feed([]byte{stream[i]})
	}

	latest, ok := d.Latest()
	if !ok {
		t.Fatal("expected an applied object")
	}

	if latest.Probability != 0.25 || latest.Summary != "steady" {
		t.Errorf("wrong final object: %+v", latest)
	}

	if d.Applied() != 1 {
		t.Errorf("expected exactly 1 applied line, got %d", d.Applied())
	}
}

func TestDecoderDoneMarkerStopsProcessing(t *testing.T) {
	d := NewDecoder[report]()

	d.Feed([]byte("data: {\"probability\": 0.6}\ndata: [DONE]\ndata: {\"probability\": 0.9}\n"))

	if d.State() != StateComplete {
		t.Fatalf("expected complete state, got %s", d.State())
	}

	latest, _ := d.Latest()
	if latest.Probability != 0.6 {
		t.Errorf("line after terminator was applied: got %v", latest.Probability)
	}
}

func TestDecoderFinishAppliesUnterminatedRemainder(t *testing.T) {
	d := NewDecoder[report]()

	d.Feed([]byte("data: {\"probability\": 0.45}"))

	if _, ok := d.Latest(); ok {
		t.Fatal("unterminated line applied before Finish")
	}

	d.Finish()

	latest, ok := d.Latest()
	if !ok {
		t.Fatal("expected Finish to apply the buffered remainder")
	}

	if latest.Probability != 0.45 {
		t.Errorf("expected probability 0.45, got %v", latest.Probability)
	}
}

func TestDecoderIgnoresNonProtocolLines(t *testing.T) {
	d := NewDecoder[report]()

	d.Feed([]byte("\n: comment\nevent: progress\ndata: {\"probability\": 0.15}\n"))

	if d.Skipped() != 0 {
		t.Errorf("non-protocol lines counted as skipped: %d", d.Skipped())
	}

	latest, ok := d.Latest()
	if !ok || latest.Probability != 0.15 {
		t.Errorf("expected data line applied, got %+v (ok=%v)", latest, ok)
	}
}

func TestEventStreamWritesDataLines(t *testing.T) {
	rec := httptest.NewRecorder()

	stream, err := NewEventStream(rec)
	if err != nil {
		t.Fatalf("failed to create stream: %v", err)
	}

	if err := stream.Send(report{Probability: 0.5, Summary: "halfway"}); err != nil {
		t.Fatalf("failed to send event: %v", err)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("failed to close stream: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream content type, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "data: {\"probability\":0.5,\"summary\":\"halfway\"}\n\n") {
		t.Errorf("missing data line in body: %q", body)
	}

	if !strings.HasSuffix(body, DataPrefix+DoneMarker+"\n\n") {
		t.Errorf("missing stream terminator: %q", body)
	}
}

func TestEventStreamRoundTripsThroughDecoder(t *testing.T) {
	rec := httptest.NewRecorder()

	stream, err := NewEventStream(rec)
	if err != nil {
		t.Fatalf("failed to create stream: %v", err)
	}

	for _, r := range []report{
		{Probability: 0.1},
		{Probability: 0.2, Summary: "building"},
		{Probability: 0.3, Summary: "settled"},
	} {
		if err := stream.Send(r); err != nil {
			t.Fatalf("failed to send event: %v", err)
		}
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("failed to close stream: %v", err)
	}

	d := NewDecoder[report]()
	d.Feed(rec.Body.Bytes())

	if d.State() != StateComplete {
		t.Fatalf("expected complete state, got %s", d.State())
	}

	latest, ok := d.Latest()
	if !ok || latest.Probability != 0.3 || latest.Summary != "settled" {
		t.Errorf("wrong final object: %+v (ok=%v)", latest, ok)
	}
}
