package criteria

// TierForCount maps a satisfied-indicator count to an evidence tier.
// Boundaries are on the count of satisfied indicators, never on weighted
// scores: 4 or more indicators place Tier 1, then 3→2, 2→3, 1→4, and a
// document satisfying no indicators is Tier 5, disqualifying.
func TierForCount(met int) Tier {
	switch {
	case met >= 4:
		return Tier1
	case met == 3:
		return Tier2
	case met == 2:
		return Tier3
	case met == 1:
		return Tier4
	default:
		return Tier5
	}
}

// CountMet returns the number of true values among indicator booleans.
func CountMet(indicators []bool) int {
	met := 0
	for _, ok := range indicators {
		if ok {
			met++
		}
	}
	return met
}

// IndicatorScore is the deterministic result of scoring one document's
// indicator booleans for a single criterion.
type IndicatorScore struct {
	Indicators    []bool         `json:"indicators"`
	IndicatorsMet int            `json:"indicators_met"`
	Tier          Tier           `json:"tier"`
	Recommend     Recommendation `json:"recommendation"`
}

// Score derives tier and recommendation from indicator booleans.
// IndicatorsMet always equals the count of true booleans; the tier is
// recomputed from that count rather than trusted from upstream.
func Score(indicators []bool) IndicatorScore {
	met := CountMet(indicators)
	tier := TierForCount(met)
	return IndicatorScore{
		Indicators:    indicators,
		IndicatorsMet: met,
		Tier:          tier,
		Recommend:     RecommendationForTier(tier),
	}
}

// CheckReported validates a reported indicators_met value against the
// indicator booleans. Returns ErrIndicatorMismatch when they disagree.
func CheckReported(indicators []bool, reportedMet int) error {
	if CountMet(indicators) != reportedMet {
		return ErrIndicatorMismatch
	}
	return nil
}
