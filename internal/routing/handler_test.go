package routing

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/pkg/middleware"
)

type ownedCases struct {
	cases.System
	owner  string
	caseID uuid.UUID
}

func (c *ownedCases) Find(_ context.Context, subject string, id uuid.UUID) (*cases.Case, error) {
	if subject != c.owner || id != c.caseID {
		return nil, cases.ErrNotFound
	}
	return &cases.Case{ID: id, Subject: subject}, nil
}

type staticTable struct {
	System
	table Table
	gets  int
}

func (s *staticTable) Get(context.Context, uuid.UUID) (Table, error) {
	s.gets++
	return s.table, nil
}

func tableRequest(caseID uuid.UUID, subject string) *http.Request {
	req := httptest.NewRequest("GET", "/cases/"+caseID.String()+"/criteria-routing", nil)
	req.SetPathValue("caseId", caseID.String())
	return req.WithContext(middleware.WithSubject(req.Context(), subject))
}

func TestGetRejectsForeignSubject(t *testing.T) {
	caseID := uuid.New()
	sys := &staticTable{table: Table{}}
	h := NewHandler(sys, &ownedCases{owner: "owner", caseID: caseID}, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Get(rec, tableRequest(caseID, "intruder"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if sys.gets != 0 {
		t.Error("routing table must not be read for a foreign subject")
	}
}

func TestGetAllowsOwner(t *testing.T) {
	caseID := uuid.New()
	sys := &staticTable{table: Table{}}
	h := NewHandler(sys, &ownedCases{owner: "owner", caseID: caseID}, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Get(rec, tableRequest(caseID, "owner"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp TableResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sys.gets != 1 {
		t.Errorf("table reads: got %d, want 1", sys.gets)
	}
}

func TestGetRejectsAnonymousSubject(t *testing.T) {
	caseID := uuid.New()
	sys := &staticTable{table: Table{}}
	h := NewHandler(sys, &ownedCases{owner: "owner", caseID: caseID}, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest("GET", "/cases/"+caseID.String()+"/criteria-routing", nil)
	req.SetPathValue("caseId", caseID.String())

	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
