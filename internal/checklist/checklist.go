// Package checklist derives the per-case evidence checklist: which
// petition slots are filled, how strongly each is supported, and the
// summary counts the case dashboard displays. The checklist is a pure
// projection over documents, verdicts, and recommenders; nothing is
// persisted.
package checklist

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/internal/recommenders"
	"github.com/advocate-project/advocate/internal/verification"
)

// ItemType identifies the kind of petition slot a checklist item tracks.
type ItemType string

// Valid item types.
const (
	ItemPersonalStatement    ItemType = "personal_statement"
	ItemRecommendationLetter ItemType = "recommendation_letter"
	ItemEvidenceDocument     ItemType = "evidence_document"
)

// ItemStatus grades how well a checklist slot is filled.
type ItemStatus string

// Valid item statuses, weakest to strongest.
const (
	StatusMissing  ItemStatus = "missing"
	StatusDraft    ItemStatus = "draft"
	StatusWeak     ItemStatus = "weak"
	StatusModerate ItemStatus = "moderate"
	StatusStrong   ItemStatus = "strong"
)

// Item is one slot in the case checklist.
type Item struct {
	Type          ItemType           `json:"type"`
	Label         string             `json:"label"`
	Status        ItemStatus         `json:"status"`
	CriterionKey  criteria.Criterion `json:"criterion_key,omitempty"`
	RecommenderID *uuid.UUID         `json:"recommender_id,omitempty"`
	DocumentID    *uuid.UUID         `json:"document_id,omitempty"`
}

// Summary aggregates item statuses. Completed counts items graded by
// verification (strong, moderate, or weak); draft and missing items
// make up the remainder.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Strong    int `json:"strong"`
	Moderate  int `json:"moderate"`
	Weak      int `json:"weak"`
	Missing   int `json:"missing"`
}

// Checklist is the derived snapshot for one case.
type Checklist struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

// Snapshot pairs a checklist with the case verification timestamp.
type Snapshot struct {
	Checklist
	LastVerifiedAt *time.Time `json:"last_verified_at"`
}

// Build derives the checklist from the case state. Inputs are the
// latest document versions, all stored verdicts, and the case
// recommenders; Build itself performs no I/O.
func Build(
	docs []documents.Document,
	verdicts []verification.Verdict,
	recs []recommenders.Recommender,
) Checklist {
	byDocument := make(map[uuid.UUID][]verification.Verdict)
	for _, v := range verdicts {
		byDocument[v.DocumentID] = append(byDocument[v.DocumentID], v)
	}

	items := make([]Item, 0, 1+len(recs)+len(criteria.All()))

	items = append(items, personalStatementItem(docs, byDocument))

	for _, rec := range recs {
		items = append(items, letterItem(rec, docs, byDocument))
	}

	for _, c := range criteria.All() {
		items = append(items, evidenceItem(c, verdicts))
	}

	return Checklist{
		Items:   items,
		Summary: summarize(items),
	}
}

func personalStatementItem(
	docs []documents.Document,
	byDocument map[uuid.UUID][]verification.Verdict,
) Item {
	item := Item{
		Type:   ItemPersonalStatement,
		Label:  "Personal Statement",
		Status: StatusMissing,
	}

	doc := newestInCategory(docs, documents.CategoryPersonalStatement, nil)
	if doc == nil {
		return item
	}

	item.DocumentID = &doc.ID
	item.Status = documentStatus(byDocument[doc.ID])
	return item
}

func letterItem(
	rec recommenders.Recommender,
	docs []documents.Document,
	byDocument map[uuid.UUID][]verification.Verdict,
) Item {
	recID := rec.ID
	item := Item{
		Type:          ItemRecommendationLetter,
		Label:         fmt.Sprintf("Recommendation letter from %s", rec.Name),
		Status:        StatusMissing,
		RecommenderID: &recID,
	}

	doc := newestInCategory(docs, documents.CategoryRecommendationLetter, &rec.ID)
	if doc == nil {
		return item
	}

	item.DocumentID = &doc.ID
	item.Status = documentStatus(byDocument[doc.ID])
	return item
}

// evidenceItem grades one criterion slot by its best non-EXCLUDE
// verdict. Excluded verdicts never link a document, so a criterion
// whose only evidence was excluded stays missing.
func evidenceItem(c criteria.Criterion, verdicts []verification.Verdict) Item {
	item := Item{
		Type:         ItemEvidenceDocument,
		Label:        c.Title(),
		Status:       StatusMissing,
		CriterionKey: c,
	}

	var best *verification.Verdict
	for i := range verdicts {
		v := &verdicts[i]
		if v.Criterion != c || v.Recommendation == criteria.RecommendExclude {
			continue
		}
		if best == nil || v.Score > best.Score ||
			(v.Score == best.Score && v.VerifiedAt.After(best.VerifiedAt)) {
			best = v
		}
	}

	if best == nil {
		return item
	}

	item.DocumentID = &best.DocumentID
	item.Status = verdictStatus(*best)
	return item
}

// newestInCategory returns the most recently uploaded document in a
// category, optionally restricted to one recommender.
func newestInCategory(
	docs []documents.Document,
	category documents.Category,
	recommenderID *uuid.UUID,
) *documents.Document {
	var newest *documents.Document
	for i := range docs {
		d := &docs[i]
		if d.Category != category {
			continue
		}
		if recommenderID != nil &&
			(d.RecommenderID == nil || *d.RecommenderID != *recommenderID) {
			continue
		}
		if newest == nil || d.UploadedAt.After(newest.UploadedAt) {
			newest = d
		}
	}
	return newest
}

// documentStatus grades a linked document: unverified documents are
// drafts, verified ones take the grade of their best verdict.
func documentStatus(verdicts []verification.Verdict) ItemStatus {
	if len(verdicts) == 0 {
		return StatusDraft
	}

	best := verdicts[0]
	for _, v := range verdicts[1:] {
		if v.Score > best.Score {
			best = v
		}
	}

	return verdictStatus(best)
}

func verdictStatus(v verification.Verdict) ItemStatus {
	switch {
	case v.Tier >= criteria.Tier4 ||
		v.Recommendation == criteria.RecommendNeedsDocs ||
		v.Recommendation == criteria.RecommendExclude:
		return StatusWeak
	case v.Tier == criteria.Tier3 ||
		v.Recommendation == criteria.RecommendWithSupport:
		return StatusModerate
	default:
		return StatusStrong
	}
}

// summarize counts item statuses. Completed is exactly the verified
// grades; draft items are counted with missing in the remainder so the
// totals always reconcile.
func summarize(items []Item) Summary {
	s := Summary{Total: len(items)}

	for _, item := range items {
		switch item.Status {
		case StatusStrong:
			s.Strong++
		case StatusModerate:
			s.Moderate++
		case StatusWeak:
			s.Weak++
		}
	}

	s.Completed = s.Strong + s.Moderate + s.Weak
	s.Missing = s.Total - s.Completed
	return s
}
