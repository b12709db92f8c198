package checklist

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/internal/recommenders"
	"github.com/advocate-project/advocate/internal/verification"
)

func verdict(docID uuid.UUID, c criteria.Criterion, tier criteria.Tier, score float64, rec criteria.Recommendation) verification.Verdict {
	return verification.Verdict{
		ID:             uuid.New(),
		DocumentID:     docID,
		Criterion:      c,
		Tier:           tier,
		Score:          score,
		Recommendation: rec,
		VerifiedAt:     time.Now().UTC(),
	}
}

func document(category documents.Category, recommenderID *uuid.UUID) documents.Document {
	return documents.Document{
		ID:            uuid.New(),
		Category:      category,
		RecommenderID: recommenderID,
		Status:        documents.StatusDraft,
		UploadedAt:    time.Now().UTC(),
	}
}

func findItem(t *testing.T, items []Item, itemType ItemType, criterion criteria.Criterion) Item {
	t.Helper()
	for _, item := range items {
		if item.Type != itemType {
			continue
		}
		if itemType == ItemEvidenceDocument && item.CriterionKey != criterion {
			continue
		}
		return item
	}
	t.Fatalf("no %s item for %s", itemType, criterion)
	return Item{}
}

func TestBuildEmptyCase(t *testing.T) {
	cl := Build(nil, nil, nil)

	// Personal statement plus one slot per criterion.
	wantTotal := 1 + len(criteria.All())
	if cl.Summary.Total != wantTotal {
		t.Errorf("total = %d, want %d", cl.Summary.Total, wantTotal)
	}
	if cl.Summary.Missing != wantTotal {
		t.Errorf("missing = %d, want %d", cl.Summary.Missing, wantTotal)
	}
	if cl.Summary.Completed != 0 {
		t.Errorf("completed = %d, want 0", cl.Summary.Completed)
	}

	for _, item := range cl.Items {
		if item.Status != StatusMissing {
			t.Errorf("item %s: status %s, want missing", item.Label, item.Status)
		}
		if item.DocumentID != nil {
			t.Errorf("item %s: unexpected linked document", item.Label)
		}
	}
}

func TestBuildSummaryInvariants(t *testing.T) {
	awardDoc := document(documents.CategoryAward, nil)
	salaryDoc := document(documents.CategorySalaryEvidence, nil)
	statement := document(documents.CategoryPersonalStatement, nil)

	rec := recommenders.Recommender{ID: uuid.New(), Name: "Dr. Chen"}
	letter := document(documents.CategoryRecommendationLetter, &rec.ID)

	docs := []documents.Document{awardDoc, salaryDoc, statement, letter}
	verdicts := []verification.Verdict{
		verdict(awardDoc.ID, criteria.Awards, criteria.Tier1, 9.0, criteria.RecommendStrong),
		verdict(salaryDoc.ID, criteria.HighSalary, criteria.Tier3, 5.5, criteria.RecommendWithSupport),
		verdict(letter.ID, criteria.OriginalContributions, criteria.Tier4, 2.5, criteria.RecommendNeedsDocs),
	}

	cl := Build(docs, verdicts, []recommenders.Recommender{rec})

	s := cl.Summary
	if s.Total != s.Completed+s.Missing {
		t.Errorf("total %d != completed %d + missing %d", s.Total, s.Completed, s.Missing)
	}
	if s.Completed != s.Strong+s.Moderate+s.Weak {
		t.Errorf("completed %d != strong %d + moderate %d + weak %d",
			s.Completed, s.Strong, s.Moderate, s.Weak)
	}

	wantTotal := 1 + 1 + len(criteria.All())
	if s.Total != wantTotal {
		t.Errorf("total = %d, want %d", s.Total, wantTotal)
	}

	if got := findItem(t, cl.Items, ItemEvidenceDocument, criteria.Awards); got.Status != StatusStrong {
		t.Errorf("awards status = %s, want strong", got.Status)
	}
	if got := findItem(t, cl.Items, ItemEvidenceDocument, criteria.HighSalary); got.Status != StatusModerate {
		t.Errorf("high salary status = %s, want moderate", got.Status)
	}
	if got := findItem(t, cl.Items, ItemEvidenceDocument, criteria.OriginalContributions); got.Status != StatusWeak {
		t.Errorf("original contributions status = %s, want weak", got.Status)
	}
}

func TestBuildUnverifiedDocumentsAreDrafts(t *testing.T) {
	statement := document(documents.CategoryPersonalStatement, nil)

	cl := Build([]documents.Document{statement}, nil, nil)

	item := findItem(t, cl.Items, ItemPersonalStatement, "")
	if item.Status != StatusDraft {
		t.Errorf("status = %s, want draft", item.Status)
	}
	if item.DocumentID == nil || *item.DocumentID != statement.ID {
		t.Error("personal statement not linked to uploaded document")
	}

	// Draft items are linked but not completed.
	if cl.Summary.Completed != 0 {
		t.Errorf("completed = %d, want 0", cl.Summary.Completed)
	}
	if cl.Summary.Total != cl.Summary.Completed+cl.Summary.Missing {
		t.Error("summary does not reconcile with a draft item present")
	}
}

func TestBuildLetterSlotPerRecommender(t *testing.T) {
	withLetter := recommenders.Recommender{ID: uuid.New(), Name: "Dr. Chen"}
	withoutLetter := recommenders.Recommender{ID: uuid.New(), Name: "Dr. Vasquez"}

	letter := document(documents.CategoryRecommendationLetter, &withLetter.ID)

	cl := Build(
		[]documents.Document{letter},
		nil,
		[]recommenders.Recommender{withLetter, withoutLetter},
	)

	var slots []Item
	for _, item := range cl.Items {
		if item.Type == ItemRecommendationLetter {
			slots = append(slots, item)
		}
	}

	if len(slots) != 2 {
		t.Fatalf("expected 2 letter slots, got %d", len(slots))
	}

	for _, slot := range slots {
		switch *slot.RecommenderID {
		case withLetter.ID:
			if slot.Status != StatusDraft {
				t.Errorf("linked letter status = %s, want draft", slot.Status)
			}
		case withoutLetter.ID:
			if slot.Status != StatusMissing {
				t.Errorf("unlinked letter status = %s, want missing", slot.Status)
			}
		default:
			t.Errorf("slot for unknown recommender %s", slot.RecommenderID)
		}
	}
}

// A document excluded for every criterion links nothing: all evidence
// slots stay missing.
func TestBuildExcludedEverywhereLinksNothing(t *testing.T) {
	doc := document(documents.CategoryOther, nil)

	var verdicts []verification.Verdict
	for _, c := range criteria.All() {
		verdicts = append(verdicts, verdict(doc.ID, c, criteria.Tier5, 0.5, criteria.RecommendExclude))
	}

	cl := Build([]documents.Document{doc}, verdicts, nil)

	for _, c := range criteria.All() {
		item := findItem(t, cl.Items, ItemEvidenceDocument, c)
		if item.Status != StatusMissing {
			t.Errorf("%s: status %s, want missing", c, item.Status)
		}
		if item.DocumentID != nil {
			t.Errorf("%s: excluded document linked", c)
		}
	}
}

func TestBuildBestVerdictWins(t *testing.T) {
	older := document(documents.CategoryAward, nil)
	newer := document(documents.CategoryAward, nil)

	verdicts := []verification.Verdict{
		verdict(older.ID, criteria.Awards, criteria.Tier3, 5.0, criteria.RecommendWithSupport),
		verdict(newer.ID, criteria.Awards, criteria.Tier1, 8.5, criteria.RecommendStrong),
	}

	cl := Build([]documents.Document{older, newer}, verdicts, nil)

	item := findItem(t, cl.Items, ItemEvidenceDocument, criteria.Awards)
	if item.DocumentID == nil || *item.DocumentID != newer.ID {
		t.Error("highest-scoring document not linked")
	}
	if item.Status != StatusStrong {
		t.Errorf("status = %s, want strong", item.Status)
	}
}
