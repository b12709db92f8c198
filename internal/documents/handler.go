package documents

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/pagination"
	"github.com/advocate-project/advocate/pkg/routes"
)

// Handler provides HTTP endpoints for document operations.
type Handler struct {
	sys           System
	cases         cases.System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StatusRequest carries the target status for a status change.
type StatusRequest struct {
	Status string `json:"status"`
}

// NewHandler creates a Handler with the given system, case system, logger,
// pagination config, and upload size limit.
func NewHandler(
	sys System,
	caseSys cases.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		cases:         caseSys,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PUT", Pattern: "/{id}/status", Handler: h.SetStatus},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of case documents with optional query parameter filters.
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

// Find returns a single document by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	if _, ok := cases.Authorize(w, r, h.cases, h.logger); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching documents.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), caseID, req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload processes a multipart form upload containing one or more files.
// Each file is stored, text-extracted, and registered independently;
// per-file failures are reported in the batch result without failing
// the rest of the batch.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	category, err := ParseCategory(r.FormValue("category"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	results := make([]BatchResult, len(files))

	g, gctx := errgroup.WithContext(r.Context())
	g.SetLimit(workerCount(len(files)))

	for i, header := range files {
		g.Go(func() error {
			cmd, err := CommandFromUpload(h.logger, header, category)
			if err != nil {
				results[i] = BatchResult{Filename: header.Filename, Error: err.Error()}
				return nil
			}

			doc, err := h.sys.Create(gctx, caseID, *cmd)
			if err != nil {
				results[i] = BatchResult{Filename: header.Filename, Error: err.Error()}
				return nil
			}

			results[i] = BatchResult{Filename: header.Filename, Document: doc}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, results)
}

// SetStatus toggles a document between draft and final.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := cases.Authorize(w, r, h.cases, h.logger); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidStatus)
		return
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	doc, err := h.sys.SetStatus(r.Context(), id, status)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Delete removes a document by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := cases.Authorize(w, r, h.cases, h.logger); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CommandFromUpload reads one multipart file into a CreateCommand,
// detecting content type, PDF page count, and extracted text.
func CommandFromUpload(logger *slog.Logger, header *multipart.FileHeader, category Category) (*CreateCommand, error) {
	file, err := header.Open()
	if err != nil {
		return nil, ErrInvalidFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, ErrInvalidFile
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)
	kind := KindForContentType(contentType)
	pageCount := extractPDFPageCount(logger, data, contentType)

	text, err := ExtractText(data, kind, contentType)
	if err != nil {
		logger.Warn("text extraction failed", "filename", header.Filename, "error", err)
		text = ""
	}

	return &CreateCommand{
		Data:          data,
		Filename:      header.Filename,
		ContentType:   contentType,
		Category:      category,
		Source:        SourceUserUploaded,
		ExtractedText: text,
		PageCount:     pageCount,
	}, nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}

func workerCount(files int) int {
	const maxWorkers = 4
	if files < maxWorkers {
		return files
	}
	return maxWorkers
}
