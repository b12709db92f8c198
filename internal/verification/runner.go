package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/agents"
	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/internal/prompts"
)

// RoutingRecomputer rebuilds the criteria routing table for a case
// after verification runs change its verdicts.
type RoutingRecomputer interface {
	Recompute(ctx context.Context, caseID uuid.UUID) error
}

// RunState tracks a bulk verification run's lifecycle.
type RunState string

// Run lifecycle states.
const (
	RunIdle      RunState = "idle"
	RunVerifying RunState = "verifying"
	RunComplete  RunState = "complete"
)

// Run records the progress of one bulk verification pass: which
// criteria completed per document and which documents failed outright.
type Run struct {
	State     RunState
	Completed map[uuid.UUID][]criteria.Criterion
	Failed    []uuid.UUID
}

// FullSuccess reports whether every document completed all ten criteria.
func (r *Run) FullSuccess() bool {
	if len(r.Failed) > 0 {
		return false
	}
	for _, done := range r.Completed {
		if len(done) != len(criteria.All()) {
			return false
		}
	}
	return len(r.Completed) > 0
}

// Runner executes verification passes: one agent call per
// (document, criterion) pair, fail-open on malformed output.
type Runner struct {
	caller    agents.Caller
	prompts   prompts.System
	documents documents.System
	verdicts  Store
	cases     cases.System
	routing   RoutingRecomputer
	locks     *lockRegistry
	logger    *slog.Logger
}

// NewRunner assembles a verification runner from its collaborators.
// routing may be set later via SetRouting to break the construction
// cycle between verification and routing.
func NewRunner(
	caller agents.Caller,
	promptSys prompts.System,
	documentSys documents.System,
	verdicts Store,
	caseSys cases.System,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		caller:    caller,
		prompts:   promptSys,
		documents: documentSys,
		verdicts:  verdicts,
		cases:     caseSys,
		locks:     newLockRegistry(),
		logger:    logger.With("system", "verification"),
	}
}

// SetRouting wires the routing recomputer.
func (r *Runner) SetRouting(routing RoutingRecomputer) {
	r.routing = routing
}

// verifyPayload is the context section of a verification prompt.
type verifyPayload struct {
	Criterion      criteria.Criterion `json:"criterion"`
	CriterionTitle string             `json:"criterion_title"`
	Indicators     []string           `json:"indicators"`
	Filename       string             `json:"filename"`
	DocumentText   string             `json:"document_text"`
}

// VerifyCriterion runs a single manual criterion drop for one document.
// The resulting verdict carries auto_routed=false.
func (r *Runner) VerifyCriterion(
	ctx context.Context,
	caseID, documentID uuid.UUID,
	criterion criteria.Criterion,
) (*Verdict, error) {
	if err := r.locks.Acquire(caseID, documentID); err != nil {
		return nil, err
	}
	defer r.locks.Release(caseID, documentID)

	doc, err := r.documents.Find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.CaseID != caseID {
		return nil, ErrNotFound
	}
	if doc.ExtractedText == "" {
		return nil, ErrNoText
	}

	verdict, err := r.verify(ctx, doc, criterion, false)
	if err != nil {
		return nil, err
	}

	saved, err := r.verdicts.Upsert(ctx, *verdict)
	if err != nil {
		return nil, err
	}

	if err := r.documents.BumpVerificationCount(ctx, documentID); err != nil {
		r.logger.Warn("verification count bump failed", "document", documentID, "error", err)
	}

	if r.routing != nil {
		if err := r.routing.Recompute(ctx, caseID); err != nil {
			r.logger.Warn("routing recompute failed", "case", caseID, "error", err)
		}
	}

	return saved, nil
}

// VerifyDocuments runs the bulk C1-C10 pass over the given documents,
// emitting stream events as it goes. Verdicts carry auto_routed=true.
// Documents are processed independently; a failure in one does not roll
// back verdicts already written for another.
func (r *Runner) VerifyDocuments(
	ctx context.Context,
	caseID uuid.UUID,
	documentIDs []uuid.UUID,
	emit EmitFunc,
) (*Run, error) {
	run := &Run{
		State:     RunVerifying,
		Completed: make(map[uuid.UUID][]criteria.Criterion),
	}

	for _, documentID := range documentIDs {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		if err := r.verifyDocument(ctx, caseID, documentID, run, emit); err != nil {
			return run, err
		}
	}

	run.State = RunComplete

	if r.routing != nil {
		if err := r.routing.Recompute(ctx, caseID); err != nil {
			r.logger.Warn("routing recompute failed", "case", caseID, "error", err)
		}
	}

	if run.FullSuccess() {
		if err := r.cases.MarkVerified(ctx, caseID); err != nil {
			r.logger.Warn("case verify stamp failed", "case", caseID, "error", err)
		}
	}

	return run, nil
}

func (r *Runner) verifyDocument(
	ctx context.Context,
	caseID, documentID uuid.UUID,
	run *Run,
	emit EmitFunc,
) error {
	if err := r.locks.Acquire(caseID, documentID); err != nil {
		run.Failed = append(run.Failed, documentID)
		return emit(Event{Type: EventDocFailed, DocumentID: documentID, Error: err.Error()})
	}
	defer r.locks.Release(caseID, documentID)

	if err := emit(Event{Type: EventDocStarted, DocumentID: documentID}); err != nil {
		return err
	}

	doc, err := r.documents.Find(ctx, documentID)
	if err != nil || doc.CaseID != caseID || doc.ExtractedText == "" {
		if err == nil {
			err = ErrNoText
		}
		run.Failed = append(run.Failed, documentID)
		return emit(Event{Type: EventDocFailed, DocumentID: documentID, Error: err.Error()})
	}

	for _, criterion := range criteria.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		verdict, err := r.verify(ctx, doc, criterion, true)
		if err != nil {
			// Fail-open: the criterion stays unverified, the pass continues.
			r.logger.Warn(
				"criterion verification skipped",
				"document", documentID,
				"criterion", criterion,
				"error", err,
			)
			continue
		}

		saved, err := r.verdicts.Upsert(ctx, *verdict)
		if err != nil {
			r.logger.Warn(
				"verdict persist failed",
				"document", documentID,
				"criterion", criterion,
				"error", err,
			)
			continue
		}

		run.Completed[documentID] = append(run.Completed[documentID], criterion)

		if err := emit(Event{
			Type:       EventCriterionComplete,
			DocumentID: documentID,
			Criterion:  &criterion,
			Result:     saved,
		}); err != nil {
			return err
		}
	}

	if _, started := run.Completed[documentID]; !started {
		run.Completed[documentID] = []criteria.Criterion{}
	}

	if err := r.documents.BumpVerificationCount(ctx, documentID); err != nil {
		r.logger.Warn("verification count bump failed", "document", documentID, "error", err)
	}

	return emit(Event{Type: EventDocComplete, DocumentID: documentID})
}

// verify performs one agent call and normalizes the response into a
// verdict. Returns an error (no verdict) when the call fails or the
// output cannot be parsed.
func (r *Runner) verify(
	ctx context.Context,
	doc *documents.Document,
	criterion criteria.Criterion,
	autoRouted bool,
) (*Verdict, error) {
	rubric, err := criteria.RubricFor(criterion)
	if err != nil {
		return nil, err
	}

	payload := verifyPayload{
		Criterion:      criterion,
		CriterionTitle: criterion.Title(),
		Indicators:     rubric.Indicators,
		Filename:       doc.Filename,
		DocumentText:   doc.ExtractedText,
	}

	prompt, err := prompts.Compose(ctx, r.prompts, prompts.StageVerify, payload)
	if err != nil {
		return nil, fmt.Errorf("compose verify prompt: %w", err)
	}

	content, err := r.caller.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("agent call: %w", err)
	}

	parsed, err := parseVerdict(content)
	if err != nil {
		return nil, err
	}

	return &Verdict{
		CaseID:           doc.CaseID,
		DocumentID:       doc.ID,
		Criterion:        criterion,
		Tier:             criteria.Tier(parsed.Tier),
		Score:            parsed.Score,
		Recommendation:   criteria.Recommendation(parsed.Recommendation),
		VerifiedClaims:   parsed.VerifiedClaims,
		UnverifiedClaims: parsed.UnverifiedClaims,
		RedFlags:         parsed.RedFlags,
		MissingDocuments: parsed.MissingDocuments,
		IndicatorsMet:    parsed.indicatorsMet(),
		AutoRouted:       autoRouted,
		Model:            r.caller.ModelName(),
		Provider:         r.caller.ProviderName(),
		VerifiedAt:       time.Now().UTC(),
	}, nil
}
