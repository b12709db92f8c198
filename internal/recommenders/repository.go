package recommenders

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/agents"
	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/prompts"
	"github.com/advocate-project/advocate/pkg/pagination"
	"github.com/advocate-project/advocate/pkg/query"
	"github.com/advocate-project/advocate/pkg/repository"
)

const recommenderColumns = `id, case_id, name, title, organization, email, phone, relationship, notes, criteria_keys, created_at, updated_at`

type repo struct {
	db         *sql.DB
	caller     agents.Caller
	promptSys  prompts.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a recommender repository implementing the System interface.
// The caller and prompt system back the import column-mapping stage.
func New(
	db *sql.DB,
	caller agents.Caller,
	promptSys prompts.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		caller:     caller,
		promptSys:  promptSys,
		logger:     logger.With("system", "recommenders"),
		pagination: pagination,
	}
}

func (r *repo) Handler(caseSys cases.System) *Handler {
	return NewHandler(r, caseSys, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	caseID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Recommender], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("CaseID", &caseID).
		WhereSearch(page.Search, "Name", "Organization", "Relationship")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count recommenders: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	result, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecommender)
	if err != nil {
		return nil, fmt.Errorf("query recommenders: %w", err)
	}

	page2 := pagination.NewPageResult(result, total, page.Page, page.PageSize)
	return &page2, nil
}

func (r *repo) ListAll(ctx context.Context, caseID uuid.UUID) ([]Recommender, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM recommenders
		WHERE case_id = $1
		ORDER BY name`, recommenderColumns)

	result, err := repository.QueryMany(ctx, r.db, q, []any{caseID}, scanRecommender)
	if err != nil {
		return nil, fmt.Errorf("query case recommenders: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Recommender, error) {
	q := fmt.Sprintf(`SELECT %s FROM recommenders WHERE id = $1`, recommenderColumns)

	rec, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanRecommender)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Create(ctx context.Context, caseID uuid.UUID, cmd CreateCommand) (*Recommender, error) {
	keys, err := marshalKeys(cmd.CriteriaKeys)
	if err != nil {
		return nil, fmt.Errorf("encode criteria keys: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO recommenders(case_id, name, title, organization, email, phone, relationship, notes, criteria_keys)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, recommenderColumns)

	args := []any{
		caseID,
		cmd.Name,
		cmd.Title,
		cmd.Organization,
		cmd.Email,
		cmd.Phone,
		cmd.Relationship,
		cmd.Notes,
		keys,
	}

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Recommender, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRecommender)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("recommender created", "id", rec.ID, "name", rec.Name, "case", caseID)
	return &rec, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Recommender, error) {
	keys, err := marshalKeys(cmd.CriteriaKeys)
	if err != nil {
		return nil, fmt.Errorf("encode criteria keys: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE recommenders
		SET name = $1, title = $2, organization = $3, email = $4,
			phone = $5, relationship = $6, notes = $7, criteria_keys = $8,
			updated_at = now()
		WHERE id = $9
		RETURNING %s`, recommenderColumns)

	args := []any{
		cmd.Name,
		cmd.Title,
		cmd.Organization,
		cmd.Email,
		cmd.Phone,
		cmd.Relationship,
		cmd.Notes,
		keys,
		id,
	}

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Recommender, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRecommender)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("recommender updated", "id", rec.ID, "name", rec.Name)
	return &rec, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM recommenders WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("recommender deleted", "id", id)
	return nil
}
