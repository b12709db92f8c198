package routing

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/verification"
	"github.com/advocate-project/advocate/pkg/repository"
)

// System defines the public contract for routing operations.
type System interface {
	Handler(caseSys cases.System) *Handler

	// Get returns the persisted routing table for a case.
	Get(ctx context.Context, caseID uuid.UUID) (Table, error)

	// Recompute rebuilds the persisted routing rows from the case's
	// current verdicts. Delete-and-insert in one transaction; safe to
	// rerun in full.
	Recompute(ctx context.Context, caseID uuid.UUID) error
}

type repo struct {
	db       *sql.DB
	verdicts verification.Store
	logger   *slog.Logger
}

// New creates a routing repository implementing the System interface.
func New(db *sql.DB, verdicts verification.Store, logger *slog.Logger) System {
	return &repo{
		db:       db,
		verdicts: verdicts,
		logger:   logger.With("system", "routing"),
	}
}

func (r *repo) Handler(caseSys cases.System) *Handler {
	return NewHandler(r, caseSys, r.logger)
}

func (r *repo) Get(ctx context.Context, caseID uuid.UUID) (Table, error) {
	q := `
		SELECT criterion, document_id, score, recommendation, auto_routed, position
		FROM routings
		WHERE case_id = $1
		ORDER BY criterion, position`

	type row struct {
		criterion criteria.Criterion
		entry     Entry
	}

	rows, err := repository.QueryMany(ctx, r.db, q, []any{caseID}, func(s repository.Scanner) (row, error) {
		var rw row
		err := s.Scan(
			&rw.criterion,
			&rw.entry.DocumentID,
			&rw.entry.Score,
			&rw.entry.Recommendation,
			&rw.entry.AutoRouted,
			&rw.entry.Position,
		)
		return rw, err
	})
	if err != nil {
		return nil, fmt.Errorf("query routings: %w", err)
	}

	table := make(Table)
	for _, rw := range rows {
		cr := table[rw.criterion]
		cr.Criterion = rw.criterion
		cr.Documents = append(cr.Documents, rw.entry)
		table[rw.criterion] = cr
	}

	return table, nil
}

func (r *repo) Recompute(ctx context.Context, caseID uuid.UUID) error {
	verdicts, err := r.verdicts.ListByCase(ctx, caseID)
	if err != nil {
		return fmt.Errorf("load verdicts: %w", err)
	}

	table := Compute(verdicts)

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM routings WHERE case_id = $1", caseID); err != nil {
			return struct{}{}, fmt.Errorf("clear routings: %w", err)
		}

		q := `
			INSERT INTO routings(case_id, criterion, document_id, score, recommendation, auto_routed, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		for _, cr := range table {
			for _, entry := range cr.Documents {
				if _, err := tx.ExecContext(
					ctx, q,
					caseID,
					cr.Criterion,
					entry.DocumentID,
					entry.Score,
					entry.Recommendation,
					entry.AutoRouted,
					entry.Position,
				); err != nil {
					return struct{}{}, fmt.Errorf("insert routing row: %w", err)
				}
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("routing recomputed", "case", caseID, "criteria", len(table))
	return nil
}
