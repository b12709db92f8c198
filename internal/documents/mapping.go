package documents

import (
	"net/url"

	"github.com/advocate-project/advocate/pkg/query"
	"github.com/advocate-project/advocate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("kind", "Kind").
	Project("source", "Source").
	Project("status", "Status").
	Project("category", "Category").
	Project("recommender_id", "RecommenderID").
	Project("extracted_text", "ExtractedText").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("signature_status", "SignatureStatus").
	Project("verification_count", "VerificationCount").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, Kind, Source, Category, and
// SignatureStatus use exact matching. Filename uses case-insensitive
// contains matching.
type Filters struct {
	Status          *Status          `json:"status,omitempty"`
	Kind            *Kind            `json:"kind,omitempty"`
	Source          *Source          `json:"source,omitempty"`
	Category        *Category        `json:"category,omitempty"`
	SignatureStatus *SignatureStatus `json:"signature_status,omitempty"`
	Filename        *string          `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Kind", f.Kind).
		WhereEquals("Source", f.Source).
		WhereEquals("Category", f.Category).
		WhereEquals("SignatureStatus", f.SignatureStatus).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		v := Status(s)
		f.Status = &v
	}

	if k := values.Get("kind"); k != "" {
		v := Kind(k)
		f.Kind = &v
	}

	if s := values.Get("source"); s != "" {
		v := Source(s)
		f.Source = &v
	}

	if c := values.Get("category"); c != "" {
		v := Category(c)
		f.Category = &v
	}

	if ss := values.Get("signature_status"); ss != "" {
		v := SignatureStatus(ss)
		f.SignatureStatus = &v
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.CaseID,
		&d.Filename,
		&d.ContentType,
		&d.Kind,
		&d.Source,
		&d.Status,
		&d.Category,
		&d.RecommenderID,
		&d.ExtractedText,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.SignatureStatus,
		&d.VerificationCount,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
