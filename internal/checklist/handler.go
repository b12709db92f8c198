package checklist

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/middleware"
	"github.com/advocate-project/advocate/pkg/routes"
)

// Handler serves the derived document checklist.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a Handler with the given service and logger.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("handler", "checklist"),
	}
}

// Routes returns the route group definition for the checklist endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/document-checklist", Handler: h.Get},
		},
	}
}

// Get returns the current checklist snapshot for the case.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("caseId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrNotFound)
		return
	}

	snapshot, err := h.svc.Snapshot(r.Context(), middleware.Subject(r.Context()), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, cases.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, snapshot)
}
