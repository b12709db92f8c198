package cases

import (
	"net/url"

	"github.com/advocate-project/advocate/pkg/query"
	"github.com/advocate-project/advocate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("subject", "Subject").
	Project("title", "Title").
	Project("field_of_endeavor", "FieldOfEndeavor").
	Project("last_verified_at", "LastVerifiedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for case queries.
// Subject is always applied by the repository; it is not caller-settable.
type Filters struct {
	Title           *string `json:"title,omitempty"`
	FieldOfEndeavor *string `json:"field_of_endeavor,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Title", f.Title).
		WhereContains("FieldOfEndeavor", f.FieldOfEndeavor)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if fe := values.Get("field_of_endeavor"); fe != "" {
		f.FieldOfEndeavor = &fe
	}

	return f
}

func scanCase(s repository.Scanner) (Case, error) {
	var c Case
	err := s.Scan(
		&c.ID,
		&c.Subject,
		&c.Title,
		&c.FieldOfEndeavor,
		&c.LastVerifiedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
