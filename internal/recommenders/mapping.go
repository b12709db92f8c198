package recommenders

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/advocate-project/advocate/pkg/query"
	"github.com/advocate-project/advocate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "recommenders", "r").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("name", "Name").
	Project("title", "Title").
	Project("organization", "Organization").
	Project("email", "Email").
	Project("phone", "Phone").
	Project("relationship", "Relationship").
	Project("notes", "Notes").
	Project("criteria_keys", "CriteriaKeys").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for recommender queries.
type Filters struct {
	Name         *string `json:"name,omitempty"`
	Organization *string `json:"organization,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereContains("Organization", f.Organization)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if o := values.Get("organization"); o != "" {
		f.Organization = &o
	}

	return f
}

// criteria_keys is stored as a JSONB column.
func scanRecommender(s repository.Scanner) (Recommender, error) {
	var r Recommender
	var keys []byte

	err := s.Scan(
		&r.ID,
		&r.CaseID,
		&r.Name,
		&r.Title,
		&r.Organization,
		&r.Email,
		&r.Phone,
		&r.Relationship,
		&r.Notes,
		&keys,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	if len(keys) > 0 {
		if err := json.Unmarshal(keys, &r.CriteriaKeys); err != nil {
			return r, fmt.Errorf("decode criteria keys: %w", err)
		}
	}

	return r, nil
}

func marshalKeys(keys []string) ([]byte, error) {
	if keys == nil {
		keys = []string{}
	}
	return json.Marshal(keys)
}
