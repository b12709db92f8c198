package analyses

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/routes"
	"github.com/advocate-project/advocate/pkg/streaming"
)

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	svc    *Service
	cases  cases.System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given service, case system, and logger.
func NewHandler(svc *Service, caseSys cases.System, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		cases:  caseSys,
		logger: logger.With("handler", "analyses"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/analyses/{kind}", Handler: h.Latest},
			{Method: "POST", Pattern: "/analyses/{kind}", Handler: h.Generate},
			{Method: "POST", Pattern: "/denial-probability", Handler: h.AssessDenial},
		},
	}
}

// Latest returns the most recent artifact of the requested kind.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	caseID, kind, ok := h.parsePath(w, r)
	if !ok {
		return
	}

	artifact, err := h.svc.Latest(r.Context(), caseID, kind)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

// Generate produces a new artifact of the requested kind.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	caseID, kind, ok := h.parsePath(w, r)
	if !ok {
		return
	}

	artifact, err := h.svc.Generate(r.Context(), caseID, kind)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, artifact)
}

// AssessDenial streams the denial-probability assessment as SSE lines
// of progressively complete partial JSON.
func (h *Handler) AssessDenial(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	stream, err := streaming.NewEventStream(w)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	emit := func(line string) error {
		return stream.SendRaw(line)
	}

	if _, err := h.svc.AssessDenial(r.Context(), caseID, emit); err != nil {
		h.logger.Warn("denial assessment aborted", "case", caseID, "error", err)
		return
	}

	if err := stream.Close(); err != nil {
		h.logger.Warn("stream close failed", "case", caseID, "error", err)
	}
}

func (h *Handler) parsePath(w http.ResponseWriter, r *http.Request) (uuid.UUID, Kind, bool) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return uuid.Nil, "", false
	}

	kind, err := ParseKind(r.PathValue("kind"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return uuid.Nil, "", false
	}

	return caseID, kind, true
}
