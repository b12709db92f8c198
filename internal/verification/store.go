package verification

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/pkg/repository"
)

// Store persists verdicts. Upsert supersedes any prior verdict for the
// same (document, criterion) pair.
type Store interface {
	Upsert(ctx context.Context, v Verdict) (*Verdict, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]Verdict, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Verdict, error)
}

type store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates a verdict store over the given database.
func NewStore(db *sql.DB, logger *slog.Logger) Store {
	return &store{
		db:     db,
		logger: logger.With("system", "verification"),
	}
}

func (s *store) Upsert(ctx context.Context, v Verdict) (*Verdict, error) {
	verified, err := marshalList(v.VerifiedClaims)
	if err != nil {
		return nil, fmt.Errorf("encode verified claims: %w", err)
	}
	unverified, err := marshalList(v.UnverifiedClaims)
	if err != nil {
		return nil, fmt.Errorf("encode unverified claims: %w", err)
	}
	flags, err := marshalList(v.RedFlags)
	if err != nil {
		return nil, fmt.Errorf("encode red flags: %w", err)
	}
	missing, err := marshalList(v.MissingDocuments)
	if err != nil {
		return nil, fmt.Errorf("encode missing documents: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO verdicts(
			case_id, document_id, criterion, tier, score, recommendation,
			verified_claims, unverified_claims, red_flags, missing_documents,
			indicators_met, auto_routed, model, provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (document_id, criterion) DO UPDATE SET
			tier = EXCLUDED.tier,
			score = EXCLUDED.score,
			recommendation = EXCLUDED.recommendation,
			verified_claims = EXCLUDED.verified_claims,
			unverified_claims = EXCLUDED.unverified_claims,
			red_flags = EXCLUDED.red_flags,
			missing_documents = EXCLUDED.missing_documents,
			indicators_met = EXCLUDED.indicators_met,
			auto_routed = EXCLUDED.auto_routed,
			model = EXCLUDED.model,
			provider = EXCLUDED.provider,
			verified_at = now()
		RETURNING %s`, verdictColumns)

	args := []any{
		v.CaseID,
		v.DocumentID,
		v.Criterion,
		v.Tier,
		v.Score,
		v.Recommendation,
		verified,
		unverified,
		flags,
		missing,
		v.IndicatorsMet,
		v.AutoRouted,
		v.Model,
		v.Provider,
	}

	saved, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Verdict, error) {
		return repository.QueryOne(ctx, tx, q, args, scanVerdict)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info(
		"verdict stored",
		"document", saved.DocumentID,
		"criterion", saved.Criterion,
		"tier", saved.Tier,
		"score", saved.Score,
	)
	return &saved, nil
}

func (s *store) ListByCase(ctx context.Context, caseID uuid.UUID) ([]Verdict, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM verdicts
		WHERE case_id = $1
		ORDER BY criterion, score DESC, verified_at DESC`, verdictColumns)

	verdicts, err := repository.QueryMany(ctx, s.db, q, []any{caseID}, scanVerdict)
	if err != nil {
		return nil, fmt.Errorf("query case verdicts: %w", err)
	}
	return verdicts, nil
}

func (s *store) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Verdict, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM verdicts
		WHERE document_id = $1
		ORDER BY criterion`, verdictColumns)

	verdicts, err := repository.QueryMany(ctx, s.db, q, []any{documentID}, scanVerdict)
	if err != nil {
		return nil, fmt.Errorf("query document verdicts: %w", err)
	}
	return verdicts, nil
}
