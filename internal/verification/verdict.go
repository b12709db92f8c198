// Package verification implements criterion verification for Advocate.
// An extraction agent scores one document against one criterion rubric
// per call, producing an immutable verdict that supersedes any prior
// verdict for the same (document, criterion) pair.
package verification

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/criteria"
)

// Verdict is the stored outcome of verifying one document against one
// criterion. Superseded by re-verification via upsert on
// (document_id, criterion).
type Verdict struct {
	ID               uuid.UUID                `json:"id"`
	CaseID           uuid.UUID                `json:"case_id"`
	DocumentID       uuid.UUID                `json:"document_id"`
	Criterion        criteria.Criterion       `json:"criterion"`
	Tier             criteria.Tier            `json:"tier"`
	Score            float64                  `json:"score"`
	Recommendation   criteria.Recommendation  `json:"recommendation"`
	VerifiedClaims   []string                 `json:"verified_claims"`
	UnverifiedClaims []string                 `json:"unverified_claims"`
	RedFlags         []string                 `json:"red_flags"`
	MissingDocuments []string                 `json:"missing_documents"`
	IndicatorsMet    int                      `json:"indicators_met"`
	AutoRouted       bool                     `json:"auto_routed"`
	Model            string                   `json:"model"`
	Provider         string                   `json:"provider"`
	VerifiedAt       time.Time                `json:"verified_at"`
}

// HasCriticalFlag reports whether any red flag is disqualifying: either
// explicitly marked CRITICAL by the agent or implied by a Tier 5 verdict.
func (v Verdict) HasCriticalFlag() bool {
	if v.Tier == criteria.Tier5 {
		return true
	}
	for _, flag := range v.RedFlags {
		if strings.HasPrefix(flag, "CRITICAL:") {
			return true
		}
	}
	return false
}

// EventType identifies a verification stream event.
type EventType string

// Stream event types emitted during a bulk verification run.
const (
	EventDocStarted        EventType = "doc_started"
	EventCriterionComplete EventType = "criterion_complete"
	EventDocFailed         EventType = "doc_failed"
	EventDocComplete       EventType = "doc_complete"
)

// Event is one SSE payload within a bulk verification run.
type Event struct {
	Type       EventType           `json:"type"`
	DocumentID uuid.UUID           `json:"document_id"`
	Criterion  *criteria.Criterion `json:"criterion,omitempty"`
	Result     *Verdict            `json:"result,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// EmitFunc delivers one event to the client. Returning an error aborts
// the run.
type EmitFunc func(Event) error
