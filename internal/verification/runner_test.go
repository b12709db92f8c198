package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/internal/prompts"
)

type fakeCaller struct {
	mu        sync.Mutex
	responses []string
	calls     int
	failAfter int
}

func (c *fakeCaller) Generate(_ context.Context, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAfter > 0 && c.calls >= c.failAfter {
		c.calls++
		return "", errors.New("model unavailable")
	}

	resp := c.responses[c.calls%len(c.responses)]
	c.calls++
	return resp, nil
}

func (c *fakeCaller) ModelName() string    { return "test-model" }
func (c *fakeCaller) ProviderName() string { return "test-provider" }

type fakeStore struct {
	mu       sync.Mutex
	verdicts []Verdict
}

func (s *fakeStore) Upsert(_ context.Context, v Verdict) (*Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = uuid.New()
	s.verdicts = append(s.verdicts, v)
	return &v, nil
}

func (s *fakeStore) ListByCase(context.Context, uuid.UUID) ([]Verdict, error) {
	return s.verdicts, nil
}

func (s *fakeStore) ListByDocument(context.Context, uuid.UUID) ([]Verdict, error) {
	return s.verdicts, nil
}

type fakeDocuments struct {
	documents.System
	docs map[uuid.UUID]*documents.Document
}

func (d *fakeDocuments) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	doc, ok := d.docs[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	return doc, nil
}

func (d *fakeDocuments) BumpVerificationCount(context.Context, uuid.UUID) error {
	return nil
}

type fakeCases struct {
	cases.System
	verified []uuid.UUID
}

func (c *fakeCases) MarkVerified(_ context.Context, id uuid.UUID) error {
	c.verified = append(c.verified, id)
	return nil
}

type fakeRouting struct {
	recomputes int
}

func (r *fakeRouting) Recompute(context.Context, uuid.UUID) error {
	r.recomputes++
	return nil
}

type promptDefaults struct {
	prompts.System
}

func (promptDefaults) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Instructions(stage)
}

func (promptDefaults) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

func goodResponse(met int) string {
	indicators := make([]string, 5)
	for i := range indicators {
		indicators[i] = "false"
		if i < met {
			indicators[i] = "true"
		}
	}
	return fmt.Sprintf(
		`{"tier": 1, "score": %d.0, "indicators": [%s], "verified_claims": ["claim"], "recommendation": "STRONG"}`,
		met+4,
		strings.Join(indicators, ", "),
	)
}

func testRunner(caller *fakeCaller, store *fakeStore, docs *fakeDocuments, caseSys *fakeCases, routing *fakeRouting) *Runner {
	logger := slog.New(slog.DiscardHandler)
	r := NewRunner(caller, promptDefaults{}, docs, store, caseSys, logger)
	r.SetRouting(routing)
	return r
}

func testDocument(caseID uuid.UUID, text string) *documents.Document {
	return &documents.Document{
		ID:            uuid.New(),
		CaseID:        caseID,
		Filename:      "evidence.pdf",
		ExtractedText: text,
	}
}

func TestVerifyCriterionManualDrop(t *testing.T) {
	caseID := uuid.New()
	doc := testDocument(caseID, "award citation text")

	caller := &fakeCaller{responses: []string{goodResponse(3)}}
	store := &fakeStore{}
	routing := &fakeRouting{}
	runner := testRunner(
		caller, store,
		&fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		&fakeCases{}, routing,
	)

	verdict, err := runner.VerifyCriterion(context.Background(), caseID, doc.ID, criteria.Awards)
	if err != nil {
		t.Fatalf("VerifyCriterion: %v", err)
	}

	if verdict.AutoRouted {
		t.Error("manual drop must not be auto-routed")
	}
	if verdict.Tier != criteria.Tier2 {
		t.Errorf("tier: got %d, want 2 (3 indicators met)", verdict.Tier)
	}
	if verdict.IndicatorsMet != 3 {
		t.Errorf("indicators met: got %d, want 3", verdict.IndicatorsMet)
	}
	if verdict.Model != "test-model" || verdict.Provider != "test-provider" {
		t.Errorf("model/provider not stamped: %s/%s", verdict.Model, verdict.Provider)
	}
	if routing.recomputes != 1 {
		t.Errorf("routing recomputes: got %d, want 1", routing.recomputes)
	}
}

func TestVerifyCriterionWithoutRoutingWired(t *testing.T) {
	caseID := uuid.New()
	doc := testDocument(caseID, "award citation text")

	runner := NewRunner(
		&fakeCaller{responses: []string{goodResponse(3)}},
		promptDefaults{},
		&fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		&fakeStore{},
		&fakeCases{},
		slog.New(slog.DiscardHandler),
	)

	verdict, err := runner.VerifyCriterion(context.Background(), caseID, doc.ID, criteria.Awards)
	if err != nil {
		t.Fatalf("VerifyCriterion: %v", err)
	}
	if verdict == nil {
		t.Fatal("expected a verdict")
	}
}

func TestVerifyCriterionRequiresText(t *testing.T) {
	caseID := uuid.New()
	doc := testDocument(caseID, "")

	runner := testRunner(
		&fakeCaller{responses: []string{goodResponse(3)}},
		&fakeStore{},
		&fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		&fakeCases{}, &fakeRouting{},
	)

	if _, err := runner.VerifyCriterion(context.Background(), caseID, doc.ID, criteria.Awards); !errors.Is(err, ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestVerifyDocumentsBulkPass(t *testing.T) {
	caseID := uuid.New()
	doc := testDocument(caseID, "publication record")

	caller := &fakeCaller{responses: []string{goodResponse(4)}}
	store := &fakeStore{}
	caseSys := &fakeCases{}
	routing := &fakeRouting{}
	runner := testRunner(
		caller, store,
		&fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		caseSys, routing,
	)

	var events []Event
	run, err := runner.VerifyDocuments(context.Background(), caseID, []uuid.UUID{doc.ID}, func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		t.Fatalf("VerifyDocuments: %v", err)
	}

	if run.State != RunComplete {
		t.Errorf("run state: got %s, want complete", run.State)
	}
	if !run.FullSuccess() {
		t.Error("expected full success")
	}
	if len(run.Completed[doc.ID]) != len(criteria.All()) {
		t.Errorf("completed criteria: got %d, want %d", len(run.Completed[doc.ID]), len(criteria.All()))
	}

	if len(store.verdicts) != len(criteria.All()) {
		t.Errorf("stored verdicts: got %d, want %d", len(store.verdicts), len(criteria.All()))
	}
	for _, v := range store.verdicts {
		if !v.AutoRouted {
			t.Error("bulk verdicts must be auto-routed")
			break
		}
	}

	if events[0].Type != EventDocStarted {
		t.Errorf("first event: got %s, want doc_started", events[0].Type)
	}
	if events[len(events)-1].Type != EventDocComplete {
		t.Errorf("last event: got %s, want doc_complete", events[len(events)-1].Type)
	}

	completes := 0
	for _, e := range events {
		if e.Type == EventCriterionComplete {
			completes++
			if e.Result == nil || e.Criterion == nil {
				t.Error("criterion_complete must carry criterion and result")
			}
		}
	}
	if completes != len(criteria.All()) {
		t.Errorf("criterion_complete events: got %d, want %d", completes, len(criteria.All()))
	}

	if len(caseSys.verified) != 1 {
		t.Errorf("case verify stamps: got %d, want 1", len(caseSys.verified))
	}
	if routing.recomputes != 1 {
		t.Errorf("routing recomputes: got %d, want 1", routing.recomputes)
	}
}

func TestVerifyDocumentsFailOpen(t *testing.T) {
	caseID := uuid.New()
	doc := testDocument(caseID, "salary evidence")

	// First three criteria succeed, the rest fail at the model.
	caller := &fakeCaller{responses: []string{goodResponse(2)}, failAfter: 3}
	store := &fakeStore{}
	caseSys := &fakeCases{}
	runner := testRunner(
		caller, store,
		&fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		caseSys, &fakeRouting{},
	)

	run, err := runner.VerifyDocuments(context.Background(), caseID, []uuid.UUID{doc.ID}, func(Event) error {
		return nil
	})
	if err != nil {
		t.Fatalf("VerifyDocuments: %v", err)
	}

	if len(store.verdicts) != 3 {
		t.Errorf("stored verdicts: got %d, want 3 (failures skipped)", len(store.verdicts))
	}
	if run.FullSuccess() {
		t.Error("partial pass must not count as full success")
	}
	if len(caseSys.verified) != 0 {
		t.Error("partial pass must not stamp last_verified_at")
	}
	if run.State != RunComplete {
		t.Errorf("run state: got %s, want complete", run.State)
	}
}

func TestVerifyDocumentsEmitsDocFailedForMissingText(t *testing.T) {
	caseID := uuid.New()
	doc := testDocument(caseID, "")

	runner := testRunner(
		&fakeCaller{responses: []string{goodResponse(2)}},
		&fakeStore{},
		&fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		&fakeCases{}, &fakeRouting{},
	)

	var events []Event
	run, err := runner.VerifyDocuments(context.Background(), caseID, []uuid.UUID{doc.ID}, func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		t.Fatalf("VerifyDocuments: %v", err)
	}

	if len(run.Failed) != 1 {
		t.Errorf("failed documents: got %d, want 1", len(run.Failed))
	}

	var failed bool
	for _, e := range events {
		if e.Type == EventDocFailed && e.DocumentID == doc.ID {
			failed = true
		}
	}
	if !failed {
		t.Error("expected doc_failed event")
	}
}

func TestConcurrentVerificationRejected(t *testing.T) {
	caseID := uuid.New()
	documentID := uuid.New()

	locks := newLockRegistry()
	if err := locks.Acquire(caseID, documentID); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := locks.Acquire(caseID, documentID); !errors.Is(err, ErrInProgress) {
		t.Errorf("second acquire: expected ErrInProgress, got %v", err)
	}

	// A different document in the same case is unaffected.
	if err := locks.Acquire(caseID, uuid.New()); err != nil {
		t.Errorf("unrelated acquire: %v", err)
	}

	locks.Release(caseID, documentID)
	if err := locks.Acquire(caseID, documentID); err != nil {
		t.Errorf("acquire after release: %v", err)
	}
}
