package verification

import (
	"strconv"
	"testing"
)

func TestParseVerdictRecomputesTier(t *testing.T) {
	// Agent reports tier 1 but only two indicators are true.
	content := `{
		"tier": 1,
		"score": 9.5,
		"indicators": [true, true, false, false, false],
		"verified_claims": ["led the national standards committee"],
		"unverified_claims": [],
		"red_flags": [],
		"missing_documents": [],
		"recommendation": "STRONG"
	}`

	parsed, err := parseVerdict(content)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}

	if parsed.Tier != 3 {
		t.Errorf("tier: got %d, want 3 (recomputed from 2 true indicators)", parsed.Tier)
	}
	if parsed.indicatorsMet() != 2 {
		t.Errorf("indicators met: got %d, want 2", parsed.indicatorsMet())
	}
}

func TestParseVerdictFailsOpenOnMalformedJSON(t *testing.T) {
	for _, content := range []string{
		"",
		"the document does not support this criterion",
		`{"tier": 2, "score":`,
		`{"tier": 2, "score": 5.0}`,
	} {
		if _, err := parseVerdict(content); err == nil {
			t.Errorf("parseVerdict(%q): expected error", content)
		}
	}
}

func TestParseVerdictToleratesMarkdownFence(t *testing.T) {
	content := "```json\n{\"tier\": 2, \"score\": 7.0, \"indicators\": [true, true, true, false], \"recommendation\": \"STRONG\"}\n```"

	parsed, err := parseVerdict(content)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if parsed.Tier != 2 {
		t.Errorf("tier: got %d, want 2", parsed.Tier)
	}
}

func TestParseVerdictClampsScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{-1.5, 0},
		{0, 0},
		{10, 10},
		{42, 10},
	}

	for _, tc := range tests {
		content := `{"tier": 3, "score": ` + strconv.FormatFloat(tc.raw, 'f', -1, 64) + `, "indicators": [true, true], "recommendation": "INCLUDE_WITH_SUPPORT"}`
		parsed, err := parseVerdict(content)
		if err != nil {
			t.Fatalf("parseVerdict: %v", err)
		}
		if parsed.Score != tc.want {
			t.Errorf("score %v: got %v, want %v", tc.raw, parsed.Score, tc.want)
		}
	}
}

func TestParseVerdictDerivesRecommendation(t *testing.T) {
	// Invalid recommendation falls back to the tier default.
	content := `{"tier": 5, "score": 1.0, "indicators": [false, false, false, false, false], "recommendation": "MAYBE"}`

	parsed, err := parseVerdict(content)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if parsed.Recommendation != "EXCLUDE" {
		t.Errorf("recommendation: got %s, want EXCLUDE (tier 5 default)", parsed.Recommendation)
	}
}
