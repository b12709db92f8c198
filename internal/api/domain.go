package api

import (
	"github.com/advocate-project/advocate/internal/agents"
	"github.com/advocate-project/advocate/internal/analyses"
	"github.com/advocate-project/advocate/internal/cases"
	"github.com/advocate-project/advocate/internal/checklist"
	"github.com/advocate-project/advocate/internal/documents"
	"github.com/advocate-project/advocate/internal/profiles"
	"github.com/advocate-project/advocate/internal/prompts"
	"github.com/advocate-project/advocate/internal/recommenders"
	"github.com/advocate-project/advocate/internal/routing"
	"github.com/advocate-project/advocate/internal/verification"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cases        cases.System
	Documents    documents.System
	Prompts      prompts.System
	Recommenders recommenders.System
	Verification *verification.Runner
	Verdicts     verification.Store
	Routing      routing.System
	Checklist    *checklist.Service
	Profiles     profiles.System
	Analyses     *analyses.Service
}

// NewDomain creates all domain systems from the API runtime and wires
// their collaborations, including the verification-to-routing recompute
// link.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	caller := agents.NewClient(runtime.Agent, agents.Options{}, runtime.Logger)

	caseSys := cases.New(db, runtime.Logger, runtime.Pagination)

	documentSys := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptSys := prompts.New(db, runtime.Logger, runtime.Pagination)

	recommenderSys := recommenders.New(
		db,
		caller,
		promptSys,
		runtime.Logger,
		runtime.Pagination,
	)

	verdicts := verification.NewStore(db, runtime.Logger)

	runner := verification.NewRunner(
		caller,
		promptSys,
		documentSys,
		verdicts,
		caseSys,
		runtime.Logger,
	)

	routingSys := routing.New(db, verdicts, runtime.Logger)
	runner.SetRouting(routingSys)

	checklistSvc := checklist.NewService(
		caseSys,
		documentSys,
		verdicts,
		recommenderSys,
		runtime.Logger,
	)

	profileSys := profiles.New(db, runtime.Logger)

	analysisSvc := analyses.NewService(
		caller,
		promptSys,
		profileSys,
		verdicts,
		analyses.NewStore(db, runtime.Logger),
		runtime.Logger,
	)

	return &Domain{
		Cases:        caseSys,
		Documents:    documentSys,
		Prompts:      promptSys,
		Recommenders: recommenderSys,
		Verification: runner,
		Verdicts:     verdicts,
		Routing:      routingSys,
		Checklist:    checklistSvc,
		Profiles:     profileSys,
		Analyses:     analysisSvc,
	}
}
