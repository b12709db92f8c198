package profiles

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/repository"
)

const profileColumns = `id, case_id, payload, created_at, updated_at`

// System defines the public contract for case profile operations.
type System interface {
	Handler(caseSys cases.System) *Handler
	Find(ctx context.Context, caseID uuid.UUID) (*CaseProfile, error)
	Upsert(ctx context.Context, caseID uuid.UUID, cmd UpsertCommand) (*CaseProfile, error)
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a profile repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "profiles"),
	}
}

func (r *repo) Handler(caseSys cases.System) *Handler {
	return NewHandler(r, caseSys, r.logger)
}

func scanProfile(s repository.Scanner) (CaseProfile, error) {
	var p CaseProfile
	var payload []byte

	err := s.Scan(&p.ID, &p.CaseID, &payload, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	p.Payload = json.RawMessage(payload)
	return p, nil
}

func (r *repo) Find(ctx context.Context, caseID uuid.UUID) (*CaseProfile, error) {
	q := fmt.Sprintf(`SELECT %s FROM case_profiles WHERE case_id = $1`, profileColumns)

	p, err := repository.QueryOne(ctx, r.db, q, []any{caseID}, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

// Upsert replaces the case profile payload, creating the row on first
// write. The payload must be a JSON object; anything else is rejected
// before touching the database.
func (r *repo) Upsert(ctx context.Context, caseID uuid.UUID, cmd UpsertCommand) (*CaseProfile, error) {
	if !isJSONObject(cmd.Payload) {
		return nil, ErrInvalidPayload
	}

	q := fmt.Sprintf(`
		INSERT INTO case_profiles(case_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (case_id) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()
		RETURNING %s`, profileColumns)

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CaseProfile, error) {
		return repository.QueryOne(ctx, tx, q, []any{caseID, []byte(cmd.Payload)}, scanProfile)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case profile upserted", "case", caseID, "bytes", len(cmd.Payload))
	return &p, nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}
