// Package recommenders implements the recommender domain for Advocate:
// the people who write recommendation letters for a petition, their
// contact details, and bulk CSV import with agent-assisted column
// mapping.
package recommenders

import (
	"time"

	"github.com/google/uuid"
)

// Recommender represents one letter writer attached to a case.
type Recommender struct {
	ID           uuid.UUID `json:"id"`
	CaseID       uuid.UUID `json:"case_id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	Notes        string    `json:"notes"`
	CriteriaKeys []string  `json:"criteria_keys"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to add a recommender.
type CreateCommand struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Relationship string   `json:"relationship"`
	Notes        string   `json:"notes"`
	CriteriaKeys []string `json:"criteria_keys"`
}

// UpdateCommand carries the data needed to update a recommender.
type UpdateCommand struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Relationship string   `json:"relationship"`
	Notes        string   `json:"notes"`
	CriteriaKeys []string `json:"criteria_keys"`
}
