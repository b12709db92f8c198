package cases

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/middleware"
)

// Authorize resolves the caseId path value and verifies the request's
// authenticated subject owns that case. On failure it writes the error
// response and returns false. Every case-scoped handler calls this
// before touching case data.
func Authorize(w http.ResponseWriter, r *http.Request, sys System, logger *slog.Logger) (uuid.UUID, bool) {
	caseID, err := uuid.Parse(r.PathValue("caseId"))
	if err != nil {
		handlers.RespondError(w, logger, http.StatusBadRequest, ErrNotFound)
		return uuid.Nil, false
	}

	subject := middleware.Subject(r.Context())
	if _, err := sys.Find(r.Context(), subject, caseID); err != nil {
		handlers.RespondError(w, logger, MapHTTPStatus(err), err)
		return uuid.Nil, false
	}

	return caseID, true
}
