package checklist

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/internal/recommenders"
	"github.com/advocate-project/advocate/internal/verification"
)

// Service assembles checklist snapshots from the case systems.
type Service struct {
	cases        cases.System
	documents    documents.System
	verdicts     verification.Store
	recommenders recommenders.System
	logger       *slog.Logger
}

// NewService creates a checklist service over the given systems.
func NewService(
	caseSys cases.System,
	documentSys documents.System,
	verdicts verification.Store,
	recommenderSys recommenders.System,
	logger *slog.Logger,
) *Service {
	return &Service{
		cases:        caseSys,
		documents:    documentSys,
		verdicts:     verdicts,
		recommenders: recommenderSys,
		logger:       logger.With("system", "checklist"),
	}
}

// Handler returns the HTTP handler for the checklist endpoint.
func (s *Service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Snapshot builds the current checklist for a case owned by subject.
func (s *Service) Snapshot(ctx context.Context, subject string, caseID uuid.UUID) (*Snapshot, error) {
	c, err := s.cases.Find(ctx, subject, caseID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.Latest(ctx, caseID)
	if err != nil {
		return nil, err
	}

	verdicts, err := s.verdicts.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	recs, err := s.recommenders.ListAll(ctx, caseID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Checklist:      Build(docs, verdicts, recs),
		LastVerifiedAt: c.LastVerifiedAt,
	}, nil
}
