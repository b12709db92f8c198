package analyses

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/verification"
)

func rankVerdict(c criteria.Criterion, tier criteria.Tier, score float64, claims int, flags []string) verification.Verdict {
	verified := make([]string, claims)
	for i := range verified {
		verified[i] = "claim"
	}
	return verification.Verdict{
		ID:             uuid.New(),
		DocumentID:     uuid.New(),
		Criterion:      c,
		Tier:           tier,
		Score:          score,
		VerifiedClaims: verified,
		RedFlags:       flags,
		VerifiedAt:     time.Now().UTC(),
	}
}

func classificationOf(t *testing.T, ranks []CriterionRank, c criteria.Criterion) Classification {
	t.Helper()
	for _, r := range ranks {
		if r.Criterion == c {
			return r.Classification
		}
	}
	t.Fatalf("criterion %s not ranked", c)
	return ""
}

func TestRankCriteriaThresholds(t *testing.T) {
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier1, 9.0, 4, nil),
		rankVerdict(criteria.ScholarlyArticles, criteria.Tier3, 5.0, 2, nil),
		rankVerdict(criteria.Membership, criteria.Tier3, 4.5, 2, nil),
		rankVerdict(criteria.Judging, criteria.Tier4, 6.0, 1, nil),
		rankVerdict(criteria.HighSalary, criteria.Tier2, 2.9, 1, nil),
		rankVerdict(criteria.Exhibitions, criteria.Tier5, 0.5, 0, nil),
	}

	ranks := RankCriteria(verdicts)

	tests := []struct {
		criterion criteria.Criterion
		want      Classification
	}{
		{criteria.Awards, ClassPrimary},            // tier 1, score 9.0
		{criteria.ScholarlyArticles, ClassPrimary}, // boundary: tier 3, score exactly 5.0
		{criteria.Membership, ClassBackup},         // tier 3 but below the 5.0 line
		{criteria.Judging, ClassDrop},              // tier 4 despite a passing score
		{criteria.HighSalary, ClassDrop},           // score below 3.0
		{criteria.Exhibitions, ClassDrop},          // tier 5 disqualifying
	}

	for _, tc := range tests {
		if got := classificationOf(t, ranks, tc.criterion); got != tc.want {
			t.Errorf("%s: classification %s, want %s", tc.criterion, got, tc.want)
		}
	}
}

func TestRankCriteriaCriticalFlagBlocksPrimary(t *testing.T) {
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier2, 7.0, 3, []string{"CRITICAL: plagiarism allegation"}),
		rankVerdict(criteria.Membership, criteria.Tier2, 7.0, 3, []string{"minor inconsistency"}),
		rankVerdict(criteria.Judging, criteria.Tier2, 6.0, 2, nil),
	}

	ranks := RankCriteria(verdicts)

	if got := classificationOf(t, ranks, criteria.Awards); got != ClassBackup {
		t.Errorf("critically flagged criterion: %s, want BACKUP", got)
	}
	if got := classificationOf(t, ranks, criteria.Membership); got != ClassPrimary {
		t.Errorf("non-critical flag: %s, want PRIMARY", got)
	}
}

func TestRankCriteriaOrdering(t *testing.T) {
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Membership, criteria.Tier2, 6.0, 2, nil),
		rankVerdict(criteria.Awards, criteria.Tier1, 8.0, 3, nil),
		// Same score as membership, worse tier: sorts after it.
		rankVerdict(criteria.Judging, criteria.Tier3, 6.0, 2, nil),
		// Same score and tier as membership, fewer claims.
		rankVerdict(criteria.PublishedMaterial, criteria.Tier2, 6.0, 1, nil),
	}

	ranks := RankCriteria(verdicts)

	wantOrder := []criteria.Criterion{
		criteria.Awards,
		criteria.Membership,
		criteria.PublishedMaterial,
		criteria.Judging,
	}

	for i, want := range wantOrder {
		if ranks[i].Criterion != want {
			t.Errorf("position %d: %s, want %s", i, ranks[i].Criterion, want)
		}
	}
}

func TestRankCriteriaIdempotent(t *testing.T) {
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier1, 8.0, 3, nil),
		rankVerdict(criteria.Membership, criteria.Tier3, 4.0, 2, nil),
		rankVerdict(criteria.Judging, criteria.Tier4, 2.0, 1, []string{"CRITICAL: fabricated"}),
		rankVerdict(criteria.HighSalary, criteria.Tier2, 6.5, 2, nil),
	}

	first := RankCriteria(verdicts)

	for run := 0; run < 5; run++ {
		again := RankCriteria(verdicts)
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Errorf("run %d position %d: %+v, want %+v", run, i, again[i], first[i])
			}
		}
	}
}

func TestRankCriteriaPromotesToFloor(t *testing.T) {
	// Only one criterion classifies above DROP on its own; the two
	// non-disqualified drops get promoted to reach three usable.
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier2, 7.0, 3, nil),
		rankVerdict(criteria.Membership, criteria.Tier4, 2.5, 1, nil),
		rankVerdict(criteria.Judging, criteria.Tier4, 2.0, 1, nil),
		rankVerdict(criteria.Exhibitions, criteria.Tier5, 0.5, 0, nil),
	}

	ranks := RankCriteria(verdicts)

	usable := 0
	for _, r := range ranks {
		if r.Classification != ClassDrop {
			usable++
		}
	}
	if usable != 3 {
		t.Errorf("usable criteria = %d, want 3", usable)
	}

	// The disqualified criterion is never promoted.
	if got := classificationOf(t, ranks, criteria.Exhibitions); got != ClassDrop {
		t.Errorf("disqualified criterion: %s, want DROP", got)
	}
}

func TestRankCriteriaFloorUnreachable(t *testing.T) {
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier2, 7.0, 3, nil),
		rankVerdict(criteria.Exhibitions, criteria.Tier5, 0.5, 0, nil),
	}

	ranks := RankCriteria(verdicts)

	usable := 0
	for _, r := range ranks {
		if r.Classification != ClassDrop {
			usable++
		}
	}
	if usable != 1 {
		t.Errorf("usable criteria = %d, want 1 when evidence cannot support more", usable)
	}
}

func TestRankCriteriaBestVerdictPerCriterion(t *testing.T) {
	verdicts := []verification.Verdict{
		rankVerdict(criteria.Awards, criteria.Tier3, 4.0, 1, nil),
		rankVerdict(criteria.Awards, criteria.Tier1, 8.5, 3, nil),
	}

	ranks := RankCriteria(verdicts)

	if len(ranks) != 1 {
		t.Fatalf("expected 1 rank, got %d", len(ranks))
	}
	if ranks[0].Score != 8.5 || ranks[0].Tier != criteria.Tier1 {
		t.Errorf("best verdict not selected: score %.1f tier %d", ranks[0].Score, ranks[0].Tier)
	}
	if ranks[0].Classification != ClassPrimary {
		t.Errorf("classification %s, want PRIMARY", ranks[0].Classification)
	}
}
