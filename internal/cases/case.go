// Package cases implements the petition case domain for Advocate.
// A case is the tenant boundary: every document, verdict, and analysis
// belongs to exactly one case, and cases are scoped to the authenticated
// subject that created them.
package cases

import (
	"time"

	"github.com/google/uuid"
)

// Case represents a single EB-1A petition under assembly.
type Case struct {
	ID              uuid.UUID  `json:"id"`
	Subject         string     `json:"subject"`
	Title           string     `json:"title"`
	FieldOfEndeavor string     `json:"field_of_endeavor"`
	LastVerifiedAt  *time.Time `json:"last_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to open a new case.
type CreateCommand struct {
	Title           string `json:"title"`
	FieldOfEndeavor string `json:"field_of_endeavor"`
}

// UpdateCommand carries the data needed to update case metadata.
type UpdateCommand struct {
	Title           string `json:"title"`
	FieldOfEndeavor string `json:"field_of_endeavor"`
}
