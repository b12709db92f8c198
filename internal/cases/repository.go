package cases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/pkg/pagination"
	"github.com/advocate-project/advocate/pkg/query"
	"github.com/advocate-project/advocate/pkg/repository"
)

const caseColumns = `id, subject, title, field_of_endeavor, last_verified_at, created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	subject string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Subject", &subject).
		WhereSearch(page.Search, "Title", "FieldOfEndeavor")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	result, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	page2 := pagination.NewPageResult(result, total, page.Page, page.PageSize)
	return &page2, nil
}

func (r *repo) Find(ctx context.Context, subject string, id uuid.UUID) (*Case, error) {
	q := fmt.Sprintf(`SELECT %s FROM cases WHERE id = $1`, caseColumns)

	c, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	if c.Subject != subject {
		return nil, ErrForbidden
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, subject string, cmd CreateCommand) (*Case, error) {
	q := fmt.Sprintf(`
		INSERT INTO cases(subject, title, field_of_endeavor)
		VALUES ($1, $2, $3)
		RETURNING %s`, caseColumns)

	args := []any{subject, cmd.Title, cmd.FieldOfEndeavor}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCase)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case created", "id", c.ID, "title", c.Title, "subject", subject)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, subject string, id uuid.UUID, cmd UpdateCommand) (*Case, error) {
	if _, err := r.Find(ctx, subject, id); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE cases
		SET title = $1, field_of_endeavor = $2, updated_at = now()
		WHERE id = $3
		RETURNING %s`, caseColumns)

	args := []any{cmd.Title, cmd.FieldOfEndeavor, id}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCase)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case updated", "id", c.ID, "title", c.Title)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, subject string, id uuid.UUID) error {
	if _, err := r.Find(ctx, subject, id); err != nil {
		return err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM cases WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case deleted", "id", id)
	return nil
}

func (r *repo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE cases SET last_verified_at = now(), updated_at = now() WHERE id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("mark case verified: %w", err)
	}
	return nil
}
