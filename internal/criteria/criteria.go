// Package criteria defines the ten EB-1A regulatory criteria, evidence tiers,
// and the indicator-count scoring rules used by criterion verification.
package criteria

import (
	"encoding/json"
	"slices"
)

// Criterion identifies one of the ten regulatory evidence categories.
type Criterion string

// The ten criteria, C1 through C10.
const (
	Awards                Criterion = "awards"
	Membership            Criterion = "membership"
	PublishedMaterial     Criterion = "published_material"
	Judging               Criterion = "judging"
	OriginalContributions Criterion = "original_contributions"
	ScholarlyArticles     Criterion = "scholarly_articles"
	Exhibitions           Criterion = "exhibitions"
	LeadingRole           Criterion = "leading_role"
	HighSalary            Criterion = "high_salary"
	CommercialSuccess     Criterion = "commercial_success"
)

var all = []Criterion{
	Awards,
	Membership,
	PublishedMaterial,
	Judging,
	OriginalContributions,
	ScholarlyArticles,
	Exhibitions,
	LeadingRole,
	HighSalary,
	CommercialSuccess,
}

// All returns the criteria in canonical C1–C10 order.
func All() []Criterion {
	return slices.Clone(all)
}

// UnmarshalJSON validates that the decoded string is a known criterion.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Criterion(raw)
	if !slices.Contains(all, v) {
		return ErrInvalidCriterion
	}
	*c = v
	return nil
}

// Parse validates a string as a known criterion.
// Returns ErrInvalidCriterion if the value is not recognized.
func Parse(s string) (Criterion, error) {
	v := Criterion(s)
	if !slices.Contains(all, v) {
		return "", ErrInvalidCriterion
	}
	return v, nil
}

// Title returns the display title for a criterion.
func (c Criterion) Title() string {
	return titles[c]
}

var titles = map[Criterion]string{
	Awards:                "Nationally or Internationally Recognized Awards",
	Membership:            "Membership in Associations Requiring Outstanding Achievement",
	PublishedMaterial:     "Published Material About the Beneficiary",
	Judging:               "Judging the Work of Others",
	OriginalContributions: "Original Contributions of Major Significance",
	ScholarlyArticles:     "Authorship of Scholarly Articles",
	Exhibitions:           "Display of Work at Artistic Exhibitions or Showcases",
	LeadingRole:           "Leading or Critical Role for Distinguished Organizations",
	HighSalary:            "High Salary or Remuneration",
	CommercialSuccess:     "Commercial Success in the Performing Arts",
}

// Tier ranks evidence quality for a criterion. Tier 1 is strongest;
// Tier 5 is disqualifying.
type Tier int

// Evidence tiers.
const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
	Tier4 Tier = 4
	Tier5 Tier = 5
)

// Valid reports whether t is within the 1–5 range.
func (t Tier) Valid() bool {
	return t >= Tier1 && t <= Tier5
}

// Recommendation categorizes how a verified document should be used
// for a criterion.
type Recommendation string

// Verification recommendations, strongest to weakest.
const (
	RecommendStrong      Recommendation = "STRONG"
	RecommendWithSupport Recommendation = "INCLUDE_WITH_SUPPORT"
	RecommendNeedsDocs   Recommendation = "NEEDS_MORE_DOCS"
	RecommendExclude     Recommendation = "EXCLUDE"
)

var recommendations = []Recommendation{
	RecommendStrong,
	RecommendWithSupport,
	RecommendNeedsDocs,
	RecommendExclude,
}

// ParseRecommendation validates a string as a known recommendation.
func ParseRecommendation(s string) (Recommendation, error) {
	v := Recommendation(s)
	if !slices.Contains(recommendations, v) {
		return "", ErrInvalidRecommendation
	}
	return v, nil
}

// RecommendationForTier maps a tier to its default recommendation.
// Tiers 1–2 are strong, 3 is supportable, 4 needs more documentation,
// and 5 is disqualifying.
func RecommendationForTier(t Tier) Recommendation {
	switch {
	case t <= Tier2:
		return RecommendStrong
	case t == Tier3:
		return RecommendWithSupport
	case t == Tier4:
		return RecommendNeedsDocs
	default:
		return RecommendExclude
	}
}
