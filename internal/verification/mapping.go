package verification

import (
	"encoding/json"
	"fmt"

	"github.com/advocate-project/advocate/pkg/repository"
)

const verdictColumns = `id, case_id, document_id, criterion, tier, score, recommendation,
		verified_claims, unverified_claims, red_flags, missing_documents,
		indicators_met, auto_routed, model, provider, verified_at`

// String slices are stored as JSONB columns; scan through raw bytes.
func scanVerdict(s repository.Scanner) (Verdict, error) {
	var v Verdict
	var verified, unverified, flags, missing []byte

	err := s.Scan(
		&v.ID,
		&v.CaseID,
		&v.DocumentID,
		&v.Criterion,
		&v.Tier,
		&v.Score,
		&v.Recommendation,
		&verified,
		&unverified,
		&flags,
		&missing,
		&v.IndicatorsMet,
		&v.AutoRouted,
		&v.Model,
		&v.Provider,
		&v.VerifiedAt,
	)
	if err != nil {
		return v, err
	}

	for _, col := range []struct {
		raw    []byte
		target *[]string
	}{
		{verified, &v.VerifiedClaims},
		{unverified, &v.UnverifiedClaims},
		{flags, &v.RedFlags},
		{missing, &v.MissingDocuments},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.target); err != nil {
			return v, fmt.Errorf("decode verdict list column: %w", err)
		}
	}

	return v, nil
}

func marshalList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}
