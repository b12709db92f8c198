// Package routing derives the criteria routing table for a case: which
// documents support which criteria, ranked by verification score. The
// table is a pure function of the case's verdicts and is recomputed in
// full whenever verification runs.
package routing

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/verification"
)

// Entry places one document within a criterion's routing list.
type Entry struct {
	DocumentID     uuid.UUID               `json:"document_id"`
	Score          float64                 `json:"score"`
	Recommendation criteria.Recommendation `json:"recommendation"`
	AutoRouted     bool                    `json:"auto_routed"`
	Position       int                     `json:"position"`
}

// CriterionRouting lists the documents routed to one criterion, best
// evidence first.
type CriterionRouting struct {
	Criterion criteria.Criterion `json:"criterion"`
	Documents []Entry            `json:"documents"`
}

// Table maps each criterion with routed evidence to its document list.
// Criteria with no supporting documents are absent.
type Table map[criteria.Criterion]CriterionRouting

// Compute builds the routing table from a case's verdicts. EXCLUDE
// verdicts are omitted entirely. Within a criterion, documents sort by
// score descending; ties break on verification recency, then document
// ID for a stable order. Each document appears at most once per
// criterion because verdicts are unique per (document, criterion).
func Compute(verdicts []verification.Verdict) Table {
	byCriterion := make(map[criteria.Criterion][]verification.Verdict)
	for _, v := range verdicts {
		if v.Recommendation == criteria.RecommendExclude {
			continue
		}
		byCriterion[v.Criterion] = append(byCriterion[v.Criterion], v)
	}

	table := make(Table, len(byCriterion))
	for criterion, group := range byCriterion {
		slices.SortFunc(group, func(a, b verification.Verdict) int {
			if a.Score != b.Score {
				if a.Score > b.Score {
					return -1
				}
				return 1
			}
			if !a.VerifiedAt.Equal(b.VerifiedAt) {
				if a.VerifiedAt.After(b.VerifiedAt) {
					return -1
				}
				return 1
			}
			return strings.Compare(a.DocumentID.String(), b.DocumentID.String())
		})

		entries := make([]Entry, len(group))
		for i, v := range group {
			entries[i] = Entry{
				DocumentID:     v.DocumentID,
				Score:          v.Score,
				Recommendation: v.Recommendation,
				AutoRouted:     v.AutoRouted,
				Position:       i,
			}
		}

		table[criterion] = CriterionRouting{
			Criterion: criterion,
			Documents: entries,
		}
	}

	return table
}
