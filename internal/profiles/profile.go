// Package profiles stores the consolidated case profile: one JSON
// document per case merging intake answers with agent-extracted resume
// data. The payload is schemaless by design; the agents downstream
// consume it whole.
package profiles

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CaseProfile is the single profile row for a case.
type CaseProfile struct {
	ID        uuid.UUID       `json:"id"`
	CaseID    uuid.UUID       `json:"case_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpsertCommand carries the replacement payload for a case profile.
type UpsertCommand struct {
	Payload json.RawMessage `json:"payload"`
}
