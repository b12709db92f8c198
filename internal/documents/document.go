// Package documents implements the evidence document domain for Advocate.
// It provides types, data access, and business logic for document upload,
// text extraction, status management, and blob storage integration.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an evidence document within a case, with its
// metadata, extracted text, and blob storage reference.
type Document struct {
	ID                uuid.UUID       `json:"id"`
	CaseID            uuid.UUID       `json:"case_id"`
	Filename          string          `json:"filename"`
	ContentType       string          `json:"content_type"`
	Kind              Kind            `json:"kind"`
	Source            Source          `json:"source"`
	Status            Status          `json:"status"`
	Category          Category        `json:"category"`
	RecommenderID     *uuid.UUID      `json:"recommender_id"`
	ExtractedText     string          `json:"extracted_text"`
	SizeBytes         int64           `json:"size_bytes"`
	PageCount         *int            `json:"page_count"`
	StorageKey        string          `json:"storage_key"`
	SignatureStatus   SignatureStatus `json:"signature_status"`
	VerificationCount int             `json:"verification_count"`
	UploadedAt        time.Time       `json:"uploaded_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BaseName returns the filename without its extension. Documents sharing
// a base name within a case form an implicit version chain; the latest
// uploaded_at wins.
func (d Document) BaseName() string {
	return BaseName(d.Filename)
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. ExtractedText and PageCount are populated
// by the upload path; nil PageCount is stored as NULL.
type CreateCommand struct {
	Data          []byte
	Filename      string
	ContentType   string
	Category      Category
	Source        Source
	RecommenderID *uuid.UUID
	ExtractedText string
	PageCount     *int
}

// BatchResult reports the outcome of a single file within a batch upload.
// On success, Document is populated and Error is empty.
// On failure, Error describes the problem and Document is nil.
type BatchResult struct {
	Document *Document `json:"document,omitempty"`
	Filename string    `json:"filename"`
	Error    string    `json:"error,omitempty"`
}
