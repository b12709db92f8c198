package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/agents"
	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/profiles"
	"github.com/advocate-project/advocate/internal/prompts"
	"github.com/advocate-project/advocate/internal/verification"
	"github.com/advocate-project/advocate/pkg/streaming"
)

// Service orchestrates analysis generation: prompt composition, agent
// calls, and artifact persistence.
type Service struct {
	caller    agents.Caller
	promptSys prompts.System
	profiles  profiles.System
	verdicts  verification.Store
	store     Store
	logger    *slog.Logger
}

// NewService creates an analysis service over the given systems.
func NewService(
	caller agents.Caller,
	promptSys prompts.System,
	profileSys profiles.System,
	verdicts verification.Store,
	store Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		caller:    caller,
		promptSys: promptSys,
		profiles:  profileSys,
		verdicts:  verdicts,
		store:     store,
		logger:    logger.With("system", "analyses"),
	}
}

// Handler returns the HTTP handler for analysis endpoints.
func (s *Service) Handler(caseSys cases.System) *Handler {
	return NewHandler(s, caseSys, s.logger)
}

// Latest returns the most recent artifact of a kind for the case.
func (s *Service) Latest(ctx context.Context, caseID uuid.UUID, kind Kind) (*Artifact, error) {
	return s.store.LatestByKind(ctx, caseID, kind)
}

// analysisContext is the prompt payload shared by the generation
// stages. Optional sections are omitted when absent.
type analysisContext struct {
	Profile            json.RawMessage        `json:"profile,omitempty"`
	Verdicts           []verification.Verdict `json:"verification_results"`
	Ranking            []CriterionRank        `json:"criteria_ranking,omitempty"`
	StrengthEvaluation json.RawMessage        `json:"strength_evaluation,omitempty"`
	GapAnalysis        json.RawMessage        `json:"gap_analysis,omitempty"`
	Consolidation      json.RawMessage        `json:"consolidation,omitempty"`
}

// Generate produces a strength evaluation, gap analysis, or case
// strategy artifact. Consolidation and denial probability have their
// own entry points; requesting them here is an error.
func (s *Service) Generate(ctx context.Context, caseID uuid.UUID, kind Kind) (*Artifact, error) {
	switch kind {
	case KindStrengthEvaluation, KindGapAnalysis, KindCaseStrategy:
	case KindConsolidation:
		return s.Consolidate(ctx, caseID)
	case KindDenialProbability:
		return nil, ErrStreamOnly
	default:
		return nil, ErrInvalidKind
	}

	payload, err := s.buildContext(ctx, caseID, kind)
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, kind, payload)
	if err != nil {
		return nil, err
	}

	return s.insert(ctx, caseID, kind, raw)
}

// Consolidate computes the deterministic criteria ranking, asks the
// agent for the narrative around it, and stores both as one artifact.
// The ranking is computed server-side; the agent never reclassifies.
func (s *Service) Consolidate(ctx context.Context, caseID uuid.UUID) (*Artifact, error) {
	payload, err := s.buildContext(ctx, caseID, KindConsolidation)
	if err != nil {
		return nil, err
	}

	narrative, err := s.generate(ctx, KindConsolidation, payload)
	if err != nil {
		return nil, err
	}

	combined, err := json.Marshal(struct {
		CriteriaRanking []CriterionRank `json:"criteria_ranking"`
		Narrative       json.RawMessage `json:"narrative"`
	}{
		CriteriaRanking: payload.Ranking,
		Narrative:       narrative,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble consolidation payload: %w", err)
	}

	return s.insert(ctx, caseID, KindConsolidation, combined)
}

// RiskFactor is one concrete denial risk in the assessment.
type RiskFactor struct {
	Factor     string `json:"factor"`
	Severity   string `json:"severity"`
	Mitigation string `json:"mitigation"`
}

// DenialReport is the streamed denial-probability assessment.
type DenialReport struct {
	DenialProbability float64      `json:"denial_probability"`
	Confidence        string       `json:"confidence"`
	StrongestCriteria []string     `json:"strongest_criteria"`
	WeakestCriteria   []string     `json:"weakest_criteria"`
	RiskFactors       []RiskFactor `json:"risk_factors"`
	Rationale         string       `json:"rationale"`
}

// AssessDenial generates the denial-probability assessment as a line
// stream: every line the agent emits is forwarded through emit as it
// is read, unparsable lines included, and the last line that parses as
// a report becomes the stored artifact. A stream with no parseable
// line stores nothing.
func (s *Service) AssessDenial(
	ctx context.Context,
	caseID uuid.UUID,
	emit func(line string) error,
) (*Artifact, error) {
	payload, err := s.buildContext(ctx, caseID, KindDenialProbability)
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.Compose(ctx, s.promptSys, prompts.StageAssess, payload)
	if err != nil {
		return nil, err
	}

	raw, err := s.caller.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("assess denial probability: %w", err)
	}

	decoder := streaming.NewDecoder[DenialReport]()

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		decoder.Feed([]byte(streaming.DataPrefix + line + "\n"))

		if err := emit(line); err != nil {
			return nil, fmt.Errorf("forward assessment line: %w", err)
		}
	}
	decoder.Finish()

	report, ok := decoder.Latest()
	if !ok {
		return nil, ErrMalformedResponse
	}
	report.DenialProbability = clampProbability(report.DenialProbability)

	if skipped := decoder.Skipped(); skipped > 0 {
		s.logger.Debug("assessment lines skipped", "case", caseID, "skipped", skipped)
	}

	final, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode denial report: %w", err)
	}

	return s.insert(ctx, caseID, KindDenialProbability, final)
}

// buildContext gathers the prompt inputs for a kind. The profile and
// prior artifacts are optional; verification results are required.
func (s *Service) buildContext(ctx context.Context, caseID uuid.UUID, kind Kind) (*analysisContext, error) {
	verdicts, err := s.verdicts.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if len(verdicts) == 0 {
		return nil, ErrNoEvidence
	}

	payload := &analysisContext{Verdicts: verdicts}

	if profile, err := s.profiles.Find(ctx, caseID); err == nil {
		payload.Profile = profile.Payload
	} else if !errors.Is(err, profiles.ErrNotFound) {
		return nil, err
	}

	switch kind {
	case KindGapAnalysis:
		payload.StrengthEvaluation = s.priorPayload(ctx, caseID, KindStrengthEvaluation)
	case KindCaseStrategy:
		payload.StrengthEvaluation = s.priorPayload(ctx, caseID, KindStrengthEvaluation)
		payload.GapAnalysis = s.priorPayload(ctx, caseID, KindGapAnalysis)
	case KindConsolidation:
		payload.Ranking = RankCriteria(verdicts)
		payload.StrengthEvaluation = s.priorPayload(ctx, caseID, KindStrengthEvaluation)
		payload.GapAnalysis = s.priorPayload(ctx, caseID, KindGapAnalysis)
	case KindDenialProbability:
		payload.Consolidation = s.priorPayload(ctx, caseID, KindConsolidation)
	}

	return payload, nil
}

func (s *Service) priorPayload(ctx context.Context, caseID uuid.UUID, kind Kind) json.RawMessage {
	artifact, err := s.store.LatestByKind(ctx, caseID, kind)
	if err != nil {
		return nil
	}
	return artifact.Payload
}

// generate runs one prompt stage and returns the raw agent response,
// validated as JSON.
func (s *Service) generate(ctx context.Context, kind Kind, payload *analysisContext) (json.RawMessage, error) {
	prompt, err := prompts.Compose(ctx, s.promptSys, stageFor[kind], payload)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.caller.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", kind, err)
	}

	trimmed := strings.TrimSpace(raw)
	if !json.Valid([]byte(trimmed)) {
		return nil, ErrMalformedResponse
	}

	s.logger.Info("analysis generated",
		"kind", kind,
		"elapsed", time.Since(started),
	)
	return json.RawMessage(trimmed), nil
}

func (s *Service) insert(ctx context.Context, caseID uuid.UUID, kind Kind, payload json.RawMessage) (*Artifact, error) {
	return s.store.Insert(ctx, Artifact{
		CaseID:   caseID,
		Kind:     kind,
		Payload:  payload,
		Model:    s.caller.ModelName(),
		Provider: s.caller.ProviderName(),
	})
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
