package profiles

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/routes"
)

// Handler provides HTTP endpoints for case profile operations.
type Handler struct {
	sys    System
	cases  cases.System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system, case system, and logger.
func NewHandler(sys System, caseSys cases.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		cases:  caseSys,
		logger: logger.With("handler", "profiles"),
	}
}

// Routes returns the route group definition for profile endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}/profile",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "PUT", Pattern: "", Handler: h.Put},
		},
	}
}

// Get returns the case profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	p, err := h.sys.Find(r.Context(), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Put replaces the case profile payload. The body may be either a
// wrapped {payload: {...}} command or the bare profile object.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidPayload)
		return
	}

	cmd := UpsertCommand{Payload: body}

	var wrapped UpsertCommand
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Payload) > 0 {
		cmd = wrapped
	}

	p, err := h.sys.Upsert(r.Context(), caseID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}
