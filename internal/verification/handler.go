package verification

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/criteria"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/pkg/handlers"
	"github.com/advocate-project/advocate/pkg/routes"
	"github.com/advocate-project/advocate/pkg/streaming"
)

// Handler provides HTTP endpoints for verification operations.
type Handler struct {
	runner        *Runner
	documents     documents.System
	cases         cases.System
	logger        *slog.Logger
	maxUploadSize int64
}

// VerifyRequest selects documents for a bulk re-verification pass.
// Empty DocumentIDs means every current document in the case.
type VerifyRequest struct {
	DocumentIDs []uuid.UUID `json:"document_ids"`
}

// CriterionResponse wraps a single manual verdict.
type CriterionResponse struct {
	Verification *Verdict `json:"verification"`
}

// NewHandler creates a Handler with the given runner, document system,
// and case system.
func NewHandler(
	runner *Runner,
	documentSys documents.System,
	caseSys cases.System,
	logger *slog.Logger,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		runner:        runner,
		documents:     documentSys,
		cases:         caseSys,
		logger:        logger.With("handler", "verification"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{caseId}",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/documents/{id}/criterion", Handler: h.VerifyCriterion},
			{Method: "POST", Pattern: "/documents/verify", Handler: h.VerifyExisting},
			{Method: "POST", Pattern: "/evidence-verify", Handler: h.VerifyUploads},
		},
	}
}

// VerifyCriterion runs a single manual criterion check against one
// document and returns the verdict as JSON.
func (h *Handler) VerifyCriterion(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	documentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	criterion, err := criteria.Parse(r.FormValue("criterion"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	verdict, err := h.runner.VerifyCriterion(r.Context(), caseID, documentID, criterion)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, CriterionResponse{Verification: verdict})
}

// VerifyExisting re-runs the bulk C1-C10 pass over existing case
// documents, streaming progress events as SSE.
func (h *Handler) VerifyExisting(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	var req VerifyRequest
	if r.Body != nil {
		// Body is optional; decode failures fall back to all documents.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	documentIDs := req.DocumentIDs
	if len(documentIDs) == 0 {
		docs, err := h.documents.Latest(r.Context(), caseID)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
			return
		}
		for _, doc := range docs {
			documentIDs = append(documentIDs, doc.ID)
		}
	}

	h.stream(w, r, caseID, documentIDs)
}

// VerifyUploads accepts a multipart batch of evidence files, registers
// each document, and streams the bulk verification pass as SSE.
func (h *Handler) VerifyUploads(w http.ResponseWriter, r *http.Request) {
	caseID, ok := cases.Authorize(w, r, h.cases, h.logger)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, documents.ErrFileTooLarge)
		return
	}

	category, err := documents.ParseCategory(r.FormValue("category"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidFile)
		return
	}

	var documentIDs []uuid.UUID
	for _, header := range files {
		cmd, err := documents.CommandFromUpload(h.logger, header, category)
		if err != nil {
			handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
			return
		}

		doc, err := h.documents.Create(r.Context(), caseID, *cmd)
		if err != nil {
			handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
			return
		}

		documentIDs = append(documentIDs, doc.ID)
	}

	h.stream(w, r, caseID, documentIDs)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request, caseID uuid.UUID, documentIDs []uuid.UUID) {
	stream, err := streaming.NewEventStream(w)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	emit := func(event Event) error {
		return stream.Send(event)
	}

	if _, err := h.runner.VerifyDocuments(r.Context(), caseID, documentIDs, emit); err != nil {
		h.logger.Warn("verification stream aborted", "case", caseID, "error", err)
		return
	}

	if err := stream.Close(); err != nil {
		h.logger.Warn("stream close failed", "case", caseID, "error", err)
	}
}
