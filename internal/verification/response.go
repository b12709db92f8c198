package verification

import (
	"fmt"

	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/pkg/formatting"
)

// verdictResponse is the raw agent output for a single criterion pass.
type verdictResponse struct {
	Tier             int      `json:"tier"`
	Score            float64  `json:"score"`
	Indicators       []bool   `json:"indicators"`
	VerifiedClaims   []string `json:"verified_claims"`
	UnverifiedClaims []string `json:"unverified_claims"`
	RedFlags         []string `json:"red_flags"`
	MissingDocuments []string `json:"missing_documents"`
	Recommendation   string   `json:"recommendation"`
}

// parseVerdict decodes and normalizes agent output. Any parse or
// validation failure means no verdict: callers record the criterion as
// unverified and continue. The tier is always recomputed from the
// indicator booleans; the agent's reported tier is advisory only.
func parseVerdict(content string) (*verdictResponse, error) {
	parsed, err := formatting.Parse[verdictResponse](content)
	if err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}

	if len(parsed.Indicators) == 0 {
		return nil, fmt.Errorf("parse verdict: missing indicator booleans")
	}

	score := criteria.Score(parsed.Indicators)
	parsed.Tier = int(score.Tier)

	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 10 {
		parsed.Score = 10
	}

	if _, err := criteria.ParseRecommendation(parsed.Recommendation); err != nil {
		parsed.Recommendation = string(criteria.RecommendationForTier(score.Tier))
	}

	return &parsed, nil
}

// indicatorsMet returns the count of true indicators.
func (r *verdictResponse) indicatorsMet() int {
	return criteria.CountMet(r.Indicators)
}
