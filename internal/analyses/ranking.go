package analyses

import (
	"cmp"
	"slices"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/verification"
)

// Classification assigns a criterion's role in the consolidated case.
type Classification string

// Valid classifications.
const (
	ClassPrimary Classification = "PRIMARY"
	ClassBackup  Classification = "BACKUP"
	ClassDrop    Classification = "DROP"
)

// CriterionRank is one row of the consolidated criteria ranking,
// carrying the figures the classification was derived from.
type CriterionRank struct {
	Criterion      criteria.Criterion `json:"criterion"`
	Classification Classification     `json:"classification"`
	Score          float64            `json:"score"`
	Tier           criteria.Tier      `json:"tier"`
	VerifiedClaims int                `json:"verified_claims"`
	RedFlags       int                `json:"red_flags"`

	// Critical is set when any verdict for the criterion carries a
	// critical red flag; Disqualified when any verdict is Tier 5.
	// Critical blocks PRIMARY; Disqualified forces DROP.
	Critical     bool `json:"critical"`
	Disqualified bool `json:"disqualified"`
}

// minRecommended is the floor of non-DROP criteria a consolidation
// should carry when the evidence can support them.
const minRecommended = 3

// RankCriteria produces the deterministic consolidated ranking from
// stored verdicts. Each criterion is represented by its best verdict
// (highest score, then strongest tier, then most recent). Ordering is
// score descending, tier ascending, verified-claim count descending,
// red-flag count ascending, criterion identifier as the final
// tie-break. Identical inputs always produce identical output.
func RankCriteria(verdicts []verification.Verdict) []CriterionRank {
	type summary struct {
		best         verification.Verdict
		critical     bool
		disqualified bool
	}

	byCriterion := make(map[criteria.Criterion]*summary)
	for _, v := range verdicts {
		s, ok := byCriterion[v.Criterion]
		if !ok {
			s = &summary{best: v}
			byCriterion[v.Criterion] = s
		} else if betterVerdict(v, s.best) {
			s.best = v
		}
		if v.HasCriticalFlag() {
			s.critical = true
		}
		if v.Tier == criteria.Tier5 {
			s.disqualified = true
		}
	}

	ranks := make([]CriterionRank, 0, len(byCriterion))
	for c, s := range byCriterion {
		ranks = append(ranks, CriterionRank{
			Criterion:      c,
			Score:          s.best.Score,
			Tier:           s.best.Tier,
			VerifiedClaims: len(s.best.VerifiedClaims),
			RedFlags:       len(s.best.RedFlags),
			Critical:       s.critical,
			Disqualified:   s.disqualified,
		})
	}

	slices.SortFunc(ranks, func(a, b CriterionRank) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
			return c
		}
		if c := cmp.Compare(b.VerifiedClaims, a.VerifiedClaims); c != 0 {
			return c
		}
		if c := cmp.Compare(a.RedFlags, b.RedFlags); c != 0 {
			return c
		}
		return cmp.Compare(a.Criterion, b.Criterion)
	})

	for i := range ranks {
		ranks[i].Classification = classify(ranks[i])
	}

	promoteToFloor(ranks)
	return ranks
}

func betterVerdict(a, b verification.Verdict) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Tier != b.Tier {
		return a.Tier < b.Tier
	}
	return a.VerifiedAt.After(b.VerifiedAt)
}

func classify(r CriterionRank) Classification {
	switch {
	case r.Tier >= criteria.Tier4 || r.Score < 3.0 || r.Disqualified:
		return ClassDrop
	case r.Tier <= criteria.Tier3 && r.Score >= 5.0 && !r.Critical:
		return ClassPrimary
	default:
		return ClassBackup
	}
}

// promoteToFloor lifts the strongest non-disqualified DROP criteria to
// BACKUP until the ranking carries minRecommended usable criteria.
// Disqualified criteria are never promoted; a ranking with fewer than
// the floor means the evidence cannot support more.
func promoteToFloor(ranks []CriterionRank) {
	usable := 0
	for _, r := range ranks {
		if r.Classification != ClassDrop {
			usable++
		}
	}

	for i := range ranks {
		if usable >= minRecommended {
			return
		}
		if ranks[i].Classification == ClassDrop && !ranks[i].Disqualified {
			ranks[i].Classification = ClassBackup
			usable++
		}
	}
}
