package recommenders

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/prompts"
)

// maxImportRows caps a single CSV import. Enforced before any agent
// call or database write.
const maxImportRows = 50

// ImportAction selects a phase of the two-step CSV import protocol.
type ImportAction string

const (
	// ImportActionMap asks the agent to map CSV headers onto
	// recommender fields without committing anything.
	ImportActionMap ImportAction = "map"

	// ImportActionCreate commits the client-confirmed recommenders,
	// merging into existing entries where they match.
	ImportActionCreate ImportAction = "create"
)

// ImportRequest is the body of POST /recommenders/import.
type ImportRequest struct {
	Action       ImportAction    `json:"action"`
	Headers      []string        `json:"headers,omitempty"`
	Rows         [][]string      `json:"rows,omitempty"`
	Recommenders []CreateCommand `json:"recommenders,omitempty"`
}

// ColumnMapping pairs one CSV header with the recommender field it
// feeds. Mappings are returned in header order.
type ColumnMapping struct {
	Column string `json:"column"`
	Field  string `json:"field"`
}

// DiffKind tags how an enrichment merge changed a field.
type DiffKind string

const (
	// DiffNew replaced an empty value with an incoming one.
	DiffNew DiffKind = "new"

	// DiffAppend extended an existing value with incoming content.
	DiffAppend DiffKind = "append"
)

// FieldDiff records one field change applied by an enrichment merge.
type FieldDiff struct {
	Field    string   `json:"field"`
	OldValue string   `json:"old_value"`
	NewValue string   `json:"new_value"`
	Kind     DiffKind `json:"kind"`
}

// MergeResult reports the diffs applied to one existing recommender.
type MergeResult struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Diffs []FieldDiff `json:"diffs"`
}

// ImportResult is the response for either import phase.
type ImportResult struct {
	Action   ImportAction    `json:"action"`
	Mappings []ColumnMapping `json:"mappings,omitempty"`
	Unmapped []string        `json:"unmapped,omitempty"`
	Created  []Recommender   `json:"created,omitempty"`
	Merged   []MergeResult   `json:"merged,omitempty"`
}

// importFields is the closed set of recommender fields a column may
// map onto.
var importFields = map[string]struct{}{
	"name":          {},
	"title":         {},
	"organization":  {},
	"email":         {},
	"phone":         {},
	"relationship":  {},
	"notes":         {},
	"criteria_keys": {},
}

// RequestFromCSV parses a raw CSV body into a map-phase import
// request. The first record is the header row; ragged rows are
// permitted since the mapping stage only needs samples.
func RequestFromCSV(body io.Reader) (ImportRequest, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportRequest{}, fmt.Errorf("%w: %s", ErrInvalidImport, err)
	}
	if len(records) == 0 {
		return ImportRequest{}, ErrEmptyImport
	}

	return ImportRequest{
		Action:  ImportActionMap,
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

type mapColumnsResponse struct {
	Mappings []ColumnMapping `json:"mappings"`
	Unmapped []string        `json:"unmapped"`
}

type mapColumnsPayload struct {
	Headers    []string   `json:"headers"`
	SampleRows [][]string `json:"sample_rows"`
}

func (r *repo) Import(ctx context.Context, caseID uuid.UUID, req ImportRequest) (*ImportResult, error) {
	switch req.Action {
	case ImportActionMap:
		return r.mapColumns(ctx, req)
	case ImportActionCreate:
		return r.importCreate(ctx, caseID, req)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidImport, req.Action)
	}
}

// mapColumns runs the agent column-mapping stage. Row limits are
// checked before the agent is called.
func (r *repo) mapColumns(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if len(req.Headers) == 0 {
		return nil, fmt.Errorf("%w: missing headers", ErrInvalidImport)
	}
	if err := checkRowLimit(len(req.Rows)); err != nil {
		return nil, err
	}

	payload := mapColumnsPayload{
		Headers:    req.Headers,
		SampleRows: req.Rows,
	}
	if len(payload.SampleRows) > 3 {
		payload.SampleRows = payload.SampleRows[:3]
	}

	prompt, err := prompts.Compose(ctx, r.promptSys, prompts.StageMapColumns, payload)
	if err != nil {
		return nil, fmt.Errorf("compose column mapping prompt: %w", err)
	}

	raw, err := r.caller.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("map columns: %w", err)
	}

	var resp mapColumnsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed mapping response", ErrInvalidImport)
	}

	mappings, unmapped := normalizeMappings(req.Headers, resp)

	r.logger.Info("columns mapped",
		"headers", len(req.Headers),
		"mapped", len(mappings),
		"unmapped", len(unmapped),
	)

	return &ImportResult{
		Action:   ImportActionMap,
		Mappings: mappings,
		Unmapped: unmapped,
	}, nil
}

// normalizeMappings reorders agent output to follow the input header
// order and drops unknown fields, duplicate field targets, and columns
// that were never in the header row. Every header ends up either
// mapped or unmapped.
func normalizeMappings(headers []string, resp mapColumnsResponse) ([]ColumnMapping, []string) {
	byColumn := make(map[string]string, len(resp.Mappings))
	usedFields := make(map[string]struct{}, len(resp.Mappings))

	for _, m := range resp.Mappings {
		field := strings.ToLower(strings.TrimSpace(m.Field))
		if _, ok := importFields[field]; !ok {
			continue
		}
		if _, taken := usedFields[field]; taken {
			continue
		}
		if _, dup := byColumn[m.Column]; dup {
			continue
		}
		byColumn[m.Column] = field
		usedFields[field] = struct{}{}
	}

	mappings := make([]ColumnMapping, 0, len(byColumn))
	unmapped := make([]string, 0, len(headers))

	for _, h := range headers {
		if field, ok := byColumn[h]; ok {
			mappings = append(mappings, ColumnMapping{Column: h, Field: field})
		} else {
			unmapped = append(unmapped, h)
		}
	}

	return mappings, unmapped
}

// importCreate commits the confirmed recommenders. Incoming entries
// matching an existing recommender by email, or by name when no email
// is present, are merged instead of duplicated.
func (r *repo) importCreate(ctx context.Context, caseID uuid.UUID, req ImportRequest) (*ImportResult, error) {
	if err := checkRowLimit(len(req.Recommenders)); err != nil {
		return nil, err
	}

	existing, err := r.ListAll(ctx, caseID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Action: ImportActionCreate}

	for _, cmd := range req.Recommenders {
		if strings.TrimSpace(cmd.Name) == "" {
			return nil, fmt.Errorf("%w: recommender name is required", ErrInvalidImport)
		}

		if match := matchExisting(existing, cmd); match != nil {
			update, diffs := MergeCommand(*match, cmd)
			if len(diffs) == 0 {
				continue
			}

			updated, err := r.Update(ctx, match.ID, update)
			if err != nil {
				return nil, err
			}

			result.Merged = append(result.Merged, MergeResult{
				ID:    updated.ID,
				Name:  updated.Name,
				Diffs: diffs,
			})
			continue
		}

		created, err := r.Create(ctx, caseID, cmd)
		if err != nil {
			return nil, err
		}

		existing = append(existing, *created)
		result.Created = append(result.Created, *created)
	}

	r.logger.Info("recommenders imported",
		"case", caseID,
		"created", len(result.Created),
		"merged", len(result.Merged),
	)

	return result, nil
}

func checkRowLimit(n int) error {
	if n == 0 {
		return ErrEmptyImport
	}
	if n > maxImportRows {
		return ErrTooManyRows
	}
	return nil
}

func matchExisting(existing []Recommender, cmd CreateCommand) *Recommender {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	name := strings.ToLower(strings.TrimSpace(cmd.Name))

	for i := range existing {
		if email != "" && strings.EqualFold(strings.TrimSpace(existing[i].Email), email) {
			return &existing[i]
		}
	}

	if email != "" {
		return nil
	}

	for i := range existing {
		if strings.ToLower(strings.TrimSpace(existing[i].Name)) == name {
			return &existing[i]
		}
	}

	return nil
}

// MergeCommand applies enrichment-merge semantics: scalar contact
// fields are filled only when currently empty, while notes and
// criteria keys accumulate. Returns the full update command alongside
// the tagged diffs that were applied.
func MergeCommand(existing Recommender, incoming CreateCommand) (UpdateCommand, []FieldDiff) {
	update := UpdateCommand{
		Name:         existing.Name,
		Title:        existing.Title,
		Organization: existing.Organization,
		Email:        existing.Email,
		Phone:        existing.Phone,
		Relationship: existing.Relationship,
		Notes:        existing.Notes,
		CriteriaKeys: existing.CriteriaKeys,
	}

	var diffs []FieldDiff

	fill := func(field string, current *string, next string) {
		next = strings.TrimSpace(next)
		if next == "" || strings.TrimSpace(*current) != "" {
			return
		}
		diffs = append(diffs, FieldDiff{
			Field:    field,
			OldValue: *current,
			NewValue: next,
			Kind:     DiffNew,
		})
		*current = next
	}

	fill("name", &update.Name, incoming.Name)
	fill("title", &update.Title, incoming.Title)
	fill("organization", &update.Organization, incoming.Organization)
	fill("email", &update.Email, incoming.Email)
	fill("phone", &update.Phone, incoming.Phone)
	fill("relationship", &update.Relationship, incoming.Relationship)

	if notes := strings.TrimSpace(incoming.Notes); notes != "" && !strings.Contains(update.Notes, notes) {
		old := update.Notes
		if update.Notes == "" {
			update.Notes = notes
		} else {
			update.Notes = update.Notes + "\n" + notes
		}
		diffs = append(diffs, FieldDiff{
			Field:    "notes",
			OldValue: old,
			NewValue: update.Notes,
			Kind:     DiffAppend,
		})
	}

	if added := appendKeys(&update.CriteriaKeys, incoming.CriteriaKeys); added {
		diffs = append(diffs, FieldDiff{
			Field:    "criteria_keys",
			OldValue: strings.Join(existing.CriteriaKeys, ","),
			NewValue: strings.Join(update.CriteriaKeys, ","),
			Kind:     DiffAppend,
		})
	}

	return update, diffs
}

// appendKeys unions incoming keys into current, preserving order.
// Reports whether anything was added.
func appendKeys(current *[]string, incoming []string) bool {
	seen := make(map[string]struct{}, len(*current))
	for _, k := range *current {
		seen[k] = struct{}{}
	}

	added := false
	for _, k := range incoming {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		*current = append(*current, k)
		seen[k] = struct{}{}
		added = true
	}

	return added
}
