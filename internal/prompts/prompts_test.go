package prompts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/advocate-project/advocate/internal/prompts"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		input   string
		want    prompts.Stage
		wantErr bool
	}{
		{"verify", prompts.StageVerify, false},
		{"evaluate", prompts.StageEvaluate, false},
		{"gap_analysis", prompts.StageGapAnalysis, false},
		{"strategize", prompts.StageStrategize, false},
		{"consolidate", prompts.StageConsolidate, false},
		{"assess", prompts.StageAssess, false},
		{"map_columns", prompts.StageMapColumns, false},
		{"classify", "", true},
		{"", "", true},
		{"VERIFY", "", true},
	}

	for _, tc := range tests {
		got, err := prompts.ParseStage(tc.input)
		if tc.wantErr {
			if !errors.Is(err, prompts.ErrInvalidStage) {
				t.Errorf("ParseStage(%q): expected ErrInvalidStage, got %v", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStage(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStage(%q): got %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestStageUnmarshalRejectsUnknown(t *testing.T) {
	var s prompts.Stage
	if err := json.Unmarshal([]byte(`"enhance"`), &s); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("expected ErrInvalidStage, got %v", err)
	}
	if err := json.Unmarshal([]byte(`"assess"`), &s); err != nil {
		t.Errorf("unexpected error for valid stage: %v", err)
	}
	if s != prompts.StageAssess {
		t.Errorf("got %s, want assess", s)
	}
}

func TestDefaultsCoverAllStages(t *testing.T) {
	for _, stage := range prompts.Stages() {
		text, err := prompts.Instructions(stage)
		if err != nil {
			t.Errorf("Instructions(%s): %v", stage, err)
		}
		if text == "" {
			t.Errorf("Instructions(%s): empty default", stage)
		}

		spec, err := prompts.Spec(stage)
		if err != nil {
			t.Errorf("Spec(%s): %v", stage, err)
		}
		if !strings.Contains(spec, "valid JSON") {
			t.Errorf("Spec(%s): missing JSON output constraint", stage)
		}
	}
}

func TestDefaultsRejectUnknownStage(t *testing.T) {
	if _, err := prompts.Instructions(prompts.Stage("bogus")); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("expected ErrInvalidStage, got %v", err)
	}
	if _, err := prompts.Spec(prompts.Stage("bogus")); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("expected ErrInvalidStage, got %v", err)
	}
}

type stubSystem struct {
	prompts.System
	instructions string
	spec         string
}

func (s stubSystem) Instructions(_ context.Context, _ prompts.Stage) (string, error) {
	return s.instructions, nil
}

func (s stubSystem) Spec(_ context.Context, _ prompts.Stage) (string, error) {
	return s.spec, nil
}

func TestCompose(t *testing.T) {
	sys := stubSystem{instructions: "analyze the document", spec: "respond with JSON"}

	payload := map[string]string{"criterion": "awards"}
	prompt, err := prompts.Compose(context.Background(), sys, prompts.StageVerify, payload)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.HasPrefix(prompt, "analyze the document\n\nrespond with JSON") {
		t.Errorf("prompt missing instructions+spec prefix: %q", prompt)
	}
	if !strings.Contains(prompt, `"criterion": "awards"`) {
		t.Errorf("prompt missing context payload: %q", prompt)
	}
}

func TestComposeWithoutPayload(t *testing.T) {
	sys := stubSystem{instructions: "instructions", spec: "spec"}

	prompt, err := prompts.Compose(context.Background(), sys, prompts.StageAssess, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if strings.Contains(prompt, "Context:") {
		t.Errorf("nil payload should omit context section: %q", prompt)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("stage", "verify")
	values.Set("name", "strict")
	values.Set("active", "true")

	f := prompts.FiltersFromQuery(values)

	if f.Stage == nil || *f.Stage != prompts.StageVerify {
		t.Errorf("stage filter: got %v", f.Stage)
	}
	if f.Name == nil || *f.Name != "strict" {
		t.Errorf("name filter: got %v", f.Name)
	}
	if f.Active == nil || !*f.Active {
		t.Errorf("active filter: got %v", f.Active)
	}

	empty := prompts.FiltersFromQuery(url.Values{})
	if empty.Stage != nil || empty.Name != nil || empty.Active != nil {
		t.Errorf("empty query should yield no filters: %+v", empty)
	}
}
