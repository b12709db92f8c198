package recommenders

import (
	"context"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/pagination"
)

// System defines the public contract for recommender domain operations.
type System interface {
	Handler(caseSys cases.System) *Handler

	List(
		ctx context.Context,
		caseID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Recommender], error)

	// ListAll returns every recommender in a case, unpaginated, for
	// checklist and import merging.
	ListAll(ctx context.Context, caseID uuid.UUID) ([]Recommender, error)

	Find(ctx context.Context, id uuid.UUID) (*Recommender, error)
	Create(ctx context.Context, caseID uuid.UUID, cmd CreateCommand) (*Recommender, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Recommender, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Import runs the two-phase CSV import protocol.
	Import(ctx context.Context, caseID uuid.UUID, req ImportRequest) (*ImportResult, error)
}
