package analyses

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/profiles"
	"github.com/advocate-project/advocate/internal/prompts"
	"github.com/advocate-project/advocate/internal/verification"
)

type fakeCaller struct {
	response string
	err      error
	prompts  []string
}

func (c *fakeCaller) Generate(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeCaller) ModelName() string    { return "test-model" }
func (c *fakeCaller) ProviderName() string { return "test-provider" }

type promptDefaults struct {
	prompts.System
}

func (promptDefaults) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Instructions(stage)
}

func (promptDefaults) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

type fakeProfiles struct {
	profiles.System
	profile *profiles.CaseProfile
}

func (p *fakeProfiles) Find(context.Context, uuid.UUID) (*profiles.CaseProfile, error) {
	if p.profile == nil {
		return nil, profiles.ErrNotFound
	}
	return p.profile, nil
}

type fakeVerdicts struct {
	verification.Store
	verdicts []verification.Verdict
}

func (v *fakeVerdicts) ListByCase(context.Context, uuid.UUID) ([]verification.Verdict, error) {
	return v.verdicts, nil
}

type fakeArtifacts struct {
	artifacts []Artifact
}

func (s *fakeArtifacts) Insert(_ context.Context, a Artifact) (*Artifact, error) {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	s.artifacts = append(s.artifacts, a)
	return &a, nil
}

func (s *fakeArtifacts) LatestByKind(_ context.Context, caseID uuid.UUID, kind Kind) (*Artifact, error) {
	for i := len(s.artifacts) - 1; i >= 0; i-- {
		if s.artifacts[i].Kind == kind {
			return &s.artifacts[i], nil
		}
	}
	return nil, ErrNotFound
}

func testService(caller *fakeCaller, verdicts *fakeVerdicts, store *fakeArtifacts) *Service {
	return NewService(
		caller,
		promptDefaults{},
		&fakeProfiles{},
		verdicts,
		store,
		slog.New(slog.DiscardHandler),
	)
}

func someVerdicts() []verification.Verdict {
	return []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier1, 8.0, 3, nil),
		rankVerdict(criteria.Membership, criteria.Tier3, 5.5, 2, nil),
	}
}

func TestGenerateStrengthEvaluation(t *testing.T) {
	caller := &fakeCaller{response: `{"overall_rating": "PROMISING", "criteria_met": 2}`}
	store := &fakeArtifacts{}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, store)

	artifact, err := svc.Generate(context.Background(), uuid.New(), KindStrengthEvaluation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if artifact.Kind != KindStrengthEvaluation {
		t.Errorf("kind = %s", artifact.Kind)
	}
	if artifact.Model != "test-model" || artifact.Provider != "test-provider" {
		t.Errorf("model/provider not stamped: %s/%s", artifact.Model, artifact.Provider)
	}
	if len(store.artifacts) != 1 {
		t.Errorf("expected 1 stored artifact, got %d", len(store.artifacts))
	}
}

func TestGenerateRequiresEvidence(t *testing.T) {
	svc := testService(&fakeCaller{}, &fakeVerdicts{}, &fakeArtifacts{})

	if _, err := svc.Generate(context.Background(), uuid.New(), KindGapAnalysis); !errors.Is(err, ErrNoEvidence) {
		t.Errorf("expected ErrNoEvidence, got %v", err)
	}
}

func TestGenerateRejectsMalformedResponse(t *testing.T) {
	caller := &fakeCaller{response: "I am unable to assess this case."}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, &fakeArtifacts{})

	if _, err := svc.Generate(context.Background(), uuid.New(), KindCaseStrategy); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGenerateDenialProbabilityIsStreamOnly(t *testing.T) {
	svc := testService(&fakeCaller{}, &fakeVerdicts{verdicts: someVerdicts()}, &fakeArtifacts{})

	if _, err := svc.Generate(context.Background(), uuid.New(), KindDenialProbability); !errors.Is(err, ErrStreamOnly) {
		t.Errorf("expected ErrStreamOnly, got %v", err)
	}
}

func TestConsolidateEmbedsServerRanking(t *testing.T) {
	caller := &fakeCaller{response: `{"executive_summary": "strong case"}`}
	store := &fakeArtifacts{}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, store)

	artifact, err := svc.Consolidate(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := string(artifact.Payload)
	if !strings.Contains(payload, `"criteria_ranking"`) {
		t.Error("consolidation payload missing server-side ranking")
	}
	if !strings.Contains(payload, `"narrative"`) {
		t.Error("consolidation payload missing agent narrative")
	}
	if !strings.Contains(payload, string(criteria.Awards)) {
		t.Error("ranking does not cover the verified criteria")
	}
}

func TestAssessDenialLastParseableLineWins(t *testing.T) {
	caller := &fakeCaller{response: strings.Join([]string{
		`{"denial_probability": 0.8}`,
		`{"denial_probability": 0.6, "confidence": "LOW"}`,
		`{"denial_probability": 0.35, "confidence":`,
		`{"denial_probability": 0.4, "confidence": "MEDIUM", "rationale": "record improved"}`,
	}, "\n")}
	store := &fakeArtifacts{}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, store)

	var emitted []string
	artifact, err := svc.AssessDenial(context.Background(), uuid.New(), func(line string) error {
		emitted = append(emitted, line)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every line is forwarded, including the truncated one.
	if len(emitted) != 4 {
		t.Errorf("emitted %d lines, want 4", len(emitted))
	}

	payload := string(artifact.Payload)
	if !strings.Contains(payload, `"denial_probability":0.4`) {
		t.Errorf("stored report is not the last parseable line: %s", payload)
	}
	if !strings.Contains(payload, "record improved") {
		t.Errorf("rationale missing from stored report: %s", payload)
	}
}

func TestAssessDenialClampsProbability(t *testing.T) {
	caller := &fakeCaller{response: `{"denial_probability": 1.7, "confidence": "LOW"}`}
	store := &fakeArtifacts{}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, store)

	artifact, err := svc.AssessDenial(context.Background(), uuid.New(), func(string) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(artifact.Payload), `"denial_probability":1`) {
		t.Errorf("probability not clamped: %s", artifact.Payload)
	}
}

func TestAssessDenialAllLinesUnparseable(t *testing.T) {
	caller := &fakeCaller{response: "not json\nstill not json"}
	store := &fakeArtifacts{}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, store)

	_, err := svc.AssessDenial(context.Background(), uuid.New(), func(string) error { return nil })
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
	if len(store.artifacts) != 0 {
		t.Errorf("artifact stored despite unusable stream: %d", len(store.artifacts))
	}
}

func TestGenerateStrategyIncludesPriorArtifacts(t *testing.T) {
	caller := &fakeCaller{response: `{"filing_posture": "STRENGTHEN_FIRST"}`}
	store := &fakeArtifacts{}
	svc := testService(caller, &fakeVerdicts{verdicts: someVerdicts()}, store)
	caseID := uuid.New()

	if _, err := svc.Generate(context.Background(), caseID, KindStrengthEvaluation); err != nil {
		t.Fatalf("strength evaluation: %v", err)
	}
	if _, err := svc.Generate(context.Background(), caseID, KindGapAnalysis); err != nil {
		t.Fatalf("gap analysis: %v", err)
	}
	if _, err := svc.Generate(context.Background(), caseID, KindCaseStrategy); err != nil {
		t.Fatalf("case strategy: %v", err)
	}

	strategyPrompt := caller.prompts[len(caller.prompts)-1]
	if !strings.Contains(strategyPrompt, `"strength_evaluation"`) {
		t.Error("strategy prompt missing prior strength evaluation")
	}
	if !strings.Contains(strategyPrompt, `"gap_analysis"`) {
		t.Error("strategy prompt missing prior gap analysis")
	}
}
