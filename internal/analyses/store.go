package analyses

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/pkg/repository"
)

const artifactColumns = `id, case_id, kind, payload, model, provider, created_at`

// Store persists analysis artifacts. Rows are append-only; a new
// artifact of a kind supersedes prior ones for reads.
type Store interface {
	Insert(ctx context.Context, artifact Artifact) (*Artifact, error)
	LatestByKind(ctx context.Context, caseID uuid.UUID, kind Kind) (*Artifact, error)
}

type store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates an artifact store over the given database.
func NewStore(db *sql.DB, logger *slog.Logger) Store {
	return &store{
		db:     db,
		logger: logger.With("system", "analyses"),
	}
}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	var payload []byte

	err := s.Scan(&a.ID, &a.CaseID, &a.Kind, &payload, &a.Model, &a.Provider, &a.CreatedAt)
	if err != nil {
		return a, err
	}

	a.Payload = payload
	return a, nil
}

func (s *store) Insert(ctx context.Context, artifact Artifact) (*Artifact, error) {
	q := fmt.Sprintf(`
		INSERT INTO analysis_artifacts(case_id, kind, payload, model, provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, artifactColumns)

	args := []any{
		artifact.CaseID,
		artifact.Kind,
		[]byte(artifact.Payload),
		artifact.Model,
		artifact.Provider,
	}

	inserted, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Artifact, error) {
		return repository.QueryOne(ctx, tx, q, args, scanArtifact)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("artifact stored",
		"case", inserted.CaseID,
		"kind", inserted.Kind,
		"id", inserted.ID,
	)
	return &inserted, nil
}

func (s *store) LatestByKind(ctx context.Context, caseID uuid.UUID, kind Kind) (*Artifact, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM analysis_artifacts
		WHERE case_id = $1 AND kind = $2
		ORDER BY created_at DESC
		LIMIT 1`, artifactColumns)

	a, err := repository.QueryOne(ctx, s.db, q, []any{caseID, kind}, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}
