package criteria_test

import (
	"errors"
	"testing"

	"github.com/advocate-project/advocate/internal/criteria"
)

func TestTierForCount(t *testing.T) {
	tests := []struct {
		name string
		met  int
		want criteria.Tier
	}{
		{"six indicators", 6, criteria.Tier1},
		{"five indicators", 5, criteria.Tier1},
		{"four indicators", 4, criteria.Tier1},
		{"three indicators", 3, criteria.Tier2},
		{"two indicators", 2, criteria.Tier3},
		{"one indicator", 1, criteria.Tier4},
		{"zero indicators", 0, criteria.Tier5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := criteria.TierForCount(tt.met); got != tt.want {
				t.Errorf("TierForCount(%d) = %d, want %d", tt.met, got, tt.want)
			}
		})
	}
}

func TestScoreIndicatorsMetMatchesBooleans(t *testing.T) {
	tests := []struct {
		name       string
		indicators []bool
		wantMet    int
		wantTier   criteria.Tier
	}{
		{
			name:       "all six met",
			indicators: []bool{true, true, true, true, true, true},
			wantMet:    6,
			wantTier:   criteria.Tier1,
		},
		{
			name:       "three of six",
			indicators: []bool{true, false, true, false, true, false},
			wantMet:    3,
			wantTier:   criteria.Tier2,
		},
		{
			name:       "single indicator",
			indicators: []bool{false, false, false, false, true, false},
			wantMet:    1,
			wantTier:   criteria.Tier4,
		},
		{
			name:       "none met is disqualifying",
			indicators: []bool{false, false, false, false, false, false},
			wantMet:    0,
			wantTier:   criteria.Tier5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := criteria.Score(tt.indicators)

			if score.IndicatorsMet != tt.wantMet {
				t.Errorf("IndicatorsMet = %d, want %d", score.IndicatorsMet, tt.wantMet)
			}
			if score.IndicatorsMet != criteria.CountMet(score.Indicators) {
				t.Error("IndicatorsMet does not equal count of true booleans")
			}
			if score.Tier != tt.wantTier {
				t.Errorf("Tier = %d, want %d", score.Tier, tt.wantTier)
			}
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	indicators := []bool{true, true, false, true, false, false}

	first := criteria.Score(indicators)
	second := criteria.Score(indicators)

	if first.Tier != second.Tier || first.IndicatorsMet != second.IndicatorsMet {
		t.Error("identical input produced different scores")
	}
}

func TestCheckReported(t *testing.T) {
	indicators := []bool{true, false, true}

	if err := criteria.CheckReported(indicators, 2); err != nil {
		t.Errorf("matching count rejected: %v", err)
	}

	err := criteria.CheckReported(indicators, 3)
	if !errors.Is(err, criteria.ErrIndicatorMismatch) {
		t.Errorf("mismatched count: got %v, want ErrIndicatorMismatch", err)
	}
}

func TestRecommendationForTier(t *testing.T) {
	tests := []struct {
		tier criteria.Tier
		want criteria.Recommendation
	}{
		{criteria.Tier1, criteria.RecommendStrong},
		{criteria.Tier2, criteria.RecommendStrong},
		{criteria.Tier3, criteria.RecommendWithSupport},
		{criteria.Tier4, criteria.RecommendNeedsDocs},
		{criteria.Tier5, criteria.RecommendExclude},
	}

	for _, tt := range tests {
		if got := criteria.RecommendationForTier(tt.tier); got != tt.want {
			t.Errorf("RecommendationForTier(%d) = %s, want %s", tt.tier, got, tt.want)
		}
	}
}

func TestRubricsCoverAllCriteria(t *testing.T) {
	for _, c := range criteria.All() {
		rubric, err := criteria.RubricFor(c)
		if err != nil {
			t.Fatalf("RubricFor(%s): %v", c, err)
		}
		if len(rubric.Indicators) < 5 {
			t.Errorf("%s rubric has %d indicators, want at least 5", c, len(rubric.Indicators))
		}
	}

	if _, err := criteria.RubricFor(criteria.Criterion("bogus")); !errors.Is(err, criteria.ErrInvalidCriterion) {
		t.Error("unknown criterion accepted")
	}
}
