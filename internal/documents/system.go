package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/pagination"
)

// System defines the public contract for document domain operations.
// All operations are scoped to a case.
type System interface {
	Handler(caseSys cases.System, maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		caseID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	// Latest returns the current version of every document in the case:
	// for each base name, the row with the most recent uploaded_at.
	Latest(ctx context.Context, caseID uuid.UUID) ([]Document, error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, caseID uuid.UUID, cmd CreateCommand) (*Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// BumpVerificationCount increments the verification counter after a
	// verification run touches the document.
	BumpVerificationCount(ctx context.Context, id uuid.UUID) error
}
