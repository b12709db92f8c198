package cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/pkg/pagination"
)

// System defines the public contract for case domain operations.
// All operations are scoped to the authenticated subject.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		subject string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, subject string, id uuid.UUID) (*Case, error)
	Create(ctx context.Context, subject string, cmd CreateCommand) (*Case, error)
	Update(ctx context.Context, subject string, id uuid.UUID, cmd UpdateCommand) (*Case, error)
	Delete(ctx context.Context, subject string, id uuid.UUID) error

	// MarkVerified stamps last_verified_at after a fully successful
	// verification run.
	MarkVerified(ctx context.Context, id uuid.UUID) error
}
