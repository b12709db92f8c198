package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/pagination"
	"github.com/advocate-project/advocate/pkg/query"
	"github.com/advocate-project/advocate/pkg/repository"
	"github.com/advocate-project/advocate/pkg/storage"
)

const documentColumns = `id, case_id, filename, content_type, kind, source, status, category,
		recommender_id, extracted_text, size_bytes, page_count, storage_key,
		signature_status, verification_count, uploaded_at, updated_at`

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(caseSys cases.System, maxUploadSize int64) *Handler {
	return NewHandler(r, caseSys, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	caseID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("CaseID", caseID).
		WhereSearch(page.Search, "Filename", "ExtractedText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Latest(ctx context.Context, caseID uuid.UUID) ([]Document, error) {
	// One row per version chain: base name = filename without extension,
	// most recent upload wins.
	q := fmt.Sprintf(`
		SELECT DISTINCT ON (regexp_replace(filename, '\.[^.]*$', ''))
			%s
		FROM documents
		WHERE case_id = $1
		ORDER BY regexp_replace(filename, '\.[^.]*$', ''), uploaded_at DESC`, documentColumns)

	docs, err := repository.QueryMany(ctx, r.db, q, []any{caseID}, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query latest documents: %w", err)
	}
	return docs, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, caseID uuid.UUID, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(caseID, id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO documents(
			id, case_id, filename, content_type, kind, source, category,
			recommender_id, extracted_text, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s`, documentColumns)

	insertArgs := []any{
		id,
		caseID,
		cmd.Filename,
		cmd.ContentType,
		KindForContentType(cmd.ContentType),
		cmd.Source,
		cmd.Category,
		cmd.RecommenderID,
		cmd.ExtractedText,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "case", caseID, "filename", d.Filename)
	return &d, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Document, error) {
	q := fmt.Sprintf(`
		UPDATE documents
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING %s`, documentColumns)

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{status, id}, scanDocument)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document status changed", "id", d.ID, "status", d.Status)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) BumpVerificationCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE documents SET verification_count = verification_count + 1, updated_at = now() WHERE id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("bump verification count: %w", err)
	}
	return nil
}

func buildStorageKey(caseID, id uuid.UUID, filename string) string {
	return fmt.Sprintf("cases/%s/documents/%s/%s", caseID, id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
