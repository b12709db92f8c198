package recommenders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCheckRowLimit(t *testing.T) {
	tests := []struct {
		name string
		rows int
		err  error
	}{
		{"zero rows rejected", 0, ErrEmptyImport},
		{"one row accepted", 1, nil},
		{"limit accepted", 50, nil},
		{"over limit rejected", 51, ErrTooManyRows},
		{"far over limit rejected", 500, ErrTooManyRows},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkRowLimit(tc.rows); err != tc.err {
				t.Errorf("checkRowLimit(%d) = %v, want %v", tc.rows, err, tc.err)
			}
		})
	}
}

func TestNormalizeMappingsPreservesHeaderOrder(t *testing.T) {
	headers := []string{"Full Name", "Company", "E-mail", "Fax"}

	// Agent output deliberately out of order.
	resp := mapColumnsResponse{
		Mappings: []ColumnMapping{
			{Column: "E-mail", Field: "email"},
			{Column: "Full Name", Field: "name"},
			{Column: "Company", Field: "organization"},
		},
		Unmapped: []string{"Fax"},
	}

	mappings, unmapped := normalizeMappings(headers, resp)

	wantOrder := []string{"Full Name", "Company", "E-mail"}
	if len(mappings) != len(wantOrder) {
		t.Fatalf("expected %d mappings, got %d", len(wantOrder), len(mappings))
	}
	for i, want := range wantOrder {
		if mappings[i].Column != want {
			t.Errorf("mapping %d: column %q, want %q", i, mappings[i].Column, want)
		}
	}

	if len(unmapped) != 1 || unmapped[0] != "Fax" {
		t.Errorf("unexpected unmapped columns: %v", unmapped)
	}
}

func TestNormalizeMappingsDropsInvalidOutput(t *testing.T) {
	headers := []string{"Name", "Nickname", "Employer"}

	resp := mapColumnsResponse{
		Mappings: []ColumnMapping{
			{Column: "Name", Field: "name"},
			{Column: "Nickname", Field: "name"},      // duplicate field target
			{Column: "Employer", Field: "workplace"}, // not a recommender field
			{Column: "Ghost", Field: "phone"},        // column not in headers
		},
	}

	mappings, unmapped := normalizeMappings(headers, resp)

	if len(mappings) != 1 || mappings[0].Column != "Name" || mappings[0].Field != "name" {
		t.Fatalf("unexpected mappings: %v", mappings)
	}

	wantUnmapped := []string{"Nickname", "Employer"}
	if len(unmapped) != len(wantUnmapped) {
		t.Fatalf("expected %d unmapped, got %v", len(wantUnmapped), unmapped)
	}
	for i, want := range wantUnmapped {
		if unmapped[i] != want {
			t.Errorf("unmapped %d: %q, want %q", i, unmapped[i], want)
		}
	}
}

func TestMergeCommandFillsOnlyEmptyFields(t *testing.T) {
	existing := Recommender{
		ID:    uuid.New(),
		Name:  "Dr. Elena Vasquez",
		Title: "Professor of Immunology",
		Email: "",
		Phone: "",
	}

	incoming := CreateCommand{
		Name:  "Elena Vasquez",
		Title: "Department Chair",
		Email: "evasquez@university.edu",
		Phone: "555-0142",
	}

	update, diffs := MergeCommand(existing, incoming)

	if update.Name != "Dr. Elena Vasquez" {
		t.Errorf("name replaced despite being set: %q", update.Name)
	}
	if update.Title != "Professor of Immunology" {
		t.Errorf("title replaced despite being set: %q", update.Title)
	}
	if update.Email != "evasquez@university.edu" {
		t.Errorf("empty email not filled: %q", update.Email)
	}
	if update.Phone != "555-0142" {
		t.Errorf("empty phone not filled: %q", update.Phone)
	}

	for _, d := range diffs {
		if d.Kind != DiffNew {
			t.Errorf("field %s: kind %s, want %s", d.Field, d.Kind, DiffNew)
		}
		if d.Field == "name" || d.Field == "title" {
			t.Errorf("unexpected diff for populated field %s", d.Field)
		}
	}
	if len(diffs) != 2 {
		t.Errorf("expected 2 diffs, got %d: %v", len(diffs), diffs)
	}
}

func TestMergeCommandAppendsNotesAndKeys(t *testing.T) {
	existing := Recommender{
		ID:           uuid.New(),
		Name:         "Dr. Chen",
		Notes:        "met at conference",
		CriteriaKeys: []string{"original_contributions"},
	}

	incoming := CreateCommand{
		Name:         "Dr. Chen",
		Notes:        "cited applicant's work twice",
		CriteriaKeys: []string{"original_contributions", "scholarly_articles"},
	}

	update, diffs := MergeCommand(existing, incoming)

	if !strings.Contains(update.Notes, "met at conference") ||
		!strings.Contains(update.Notes, "cited applicant's work twice") {
		t.Errorf("notes not appended: %q", update.Notes)
	}

	wantKeys := []string{"original_contributions", "scholarly_articles"}
	if len(update.CriteriaKeys) != len(wantKeys) {
		t.Fatalf("criteria keys: %v, want %v", update.CriteriaKeys, wantKeys)
	}
	for i, want := range wantKeys {
		if update.CriteriaKeys[i] != want {
			t.Errorf("key %d: %q, want %q", i, update.CriteriaKeys[i], want)
		}
	}

	for _, d := range diffs {
		if d.Kind != DiffAppend {
			t.Errorf("field %s: kind %s, want %s", d.Field, d.Kind, DiffAppend)
		}
	}
	if len(diffs) != 2 {
		t.Errorf("expected 2 diffs, got %d: %v", len(diffs), diffs)
	}
}

func TestMergeCommandNoChanges(t *testing.T) {
	existing := Recommender{
		ID:           uuid.New(),
		Name:         "Dr. Chen",
		Title:        "Director",
		Notes:        "longtime collaborator",
		CriteriaKeys: []string{"judging"},
	}

	incoming := CreateCommand{
		Name:         "Dr. Chen",
		Title:        "Senior Director",
		Notes:        "longtime collaborator",
		CriteriaKeys: []string{"judging"},
	}

	update, diffs := MergeCommand(existing, incoming)

	if len(diffs) != 0 {
		t.Errorf("expected no diffs, got %v", diffs)
	}
	if update.Title != "Director" {
		t.Errorf("title changed: %q", update.Title)
	}
	if update.Notes != "longtime collaborator" {
		t.Errorf("notes changed: %q", update.Notes)
	}
}

func TestRequestFromCSV(t *testing.T) {
	body := strings.NewReader("Name,Email,Notes\nDr. Chen,chen@lab.org,collaborator\nDr. Vasquez,evasquez@university.edu,\n")

	req, err := RequestFromCSV(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Action != ImportActionMap {
		t.Errorf("action = %s, want %s", req.Action, ImportActionMap)
	}

	wantHeaders := []string{"Name", "Email", "Notes"}
	for i, want := range wantHeaders {
		if req.Headers[i] != want {
			t.Errorf("header %d: %q, want %q", i, req.Headers[i], want)
		}
	}

	if len(req.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(req.Rows))
	}
	if req.Rows[0][0] != "Dr. Chen" {
		t.Errorf("row 0 name = %q", req.Rows[0][0])
	}
}

func TestRequestFromCSVEmpty(t *testing.T) {
	if _, err := RequestFromCSV(strings.NewReader("")); err != ErrEmptyImport {
		t.Errorf("expected ErrEmptyImport, got %v", err)
	}
}

func TestImportRejectsUnknownAction(t *testing.T) {
	r := &repo{}

	if _, err := r.Import(context.Background(), uuid.New(), ImportRequest{Action: "upsert"}); err == nil {
		t.Error("expected error for unknown action")
	}
}
