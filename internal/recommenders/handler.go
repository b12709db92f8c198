package recommenders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/pagination"
	"github.com/advocate-project/advocate/pkg/routes"
)

// Handler provides HTTP endpoints for recommender operations.
type Handler struct {
	sys        System
	cases      cases.System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, case system, logger,
// and pagination config.
func NewHandler(
	sys System,
	caseSys cases.System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		cases:      caseSys,
		logger:     logger.With("handler", "recommenders"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for recommender endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}/recommenders",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/import", Handler: h.Import},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of case recommenders with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), caseID, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching recommenders.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidImport)
		return
	}

	result, err := h.sys.List(r.Context(), caseID, req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single recommender by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	if _, ok := cases.Authorize(w, r, h.cases, h.logger); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Create adds a recommender to the case from a JSON body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidImport)
		return
	}

	rec, err := h.sys.Create(r.Context(), caseID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, rec)
}

// Update modifies a recommender from a JSON body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := cases.Authorize(w, r, h.cases, h.logger); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidImport)
		return
	}

	rec, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Delete removes a recommender.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := cases.Authorize(w, r, h.cases, h.logger); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import runs one phase of the CSV import protocol. Row limits are
// validated before any agent or database work.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	var req ImportRequest
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		req, err = RequestFromCSV(r.Body)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidImport)
		return
	}

	result, err := h.sys.Import(r.Context(), caseID, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
