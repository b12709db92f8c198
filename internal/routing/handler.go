package routing

import (
	"log/slog"
	"net/http"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/routes"
)

// Handler provides HTTP endpoints for routing operations.
type Handler struct {
	sys    System
	cases  cases.System
	logger *slog.Logger
}

// TableResponse wraps the routing table for the wire.
type TableResponse struct {
	Routings Table `json:"routings"`
}

// NewHandler creates a Handler with the given system, case system, and logger.
func NewHandler(sys System, caseSys cases.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		cases:  caseSys,
		logger: logger.With("handler", "routing"),
	}
}

// Routes returns the route group definition for routing endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/criteria-routing", Handler: h.Get},
			{Method: "POST", Pattern: "/criteria-routing/recompute", Handler: h.Recompute},
		},
	}
}

// Get returns the persisted routing table for a case.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	table, err := h.sys.Get(r.Context(), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TableResponse{Routings: table})
}

// Recompute rebuilds the routing table from current verdicts.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	if err := h.sys.Recompute(r.Context(), caseID); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	table, err := h.sys.Get(r.Context(), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TableResponse{Routings: table})
}
