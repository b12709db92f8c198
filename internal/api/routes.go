package api

import (
	"net/http"

	"github.com/advocate-project/advocate/internal/verification"
	"github.com/advocate-project/advocate/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	verificationHandler := verification.NewHandler(
		domain.Verification,
		domain.Documents,
		domain.Cases,
		runtime.Logger,
		runtime.MaxUploadSize,
	)

	routes.Register(
		mux,
		domain.Cases.Handler().Routes(),
		domain.Documents.Handler(domain.Cases, runtime.MaxUploadSize).Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Recommenders.Handler(domain.Cases).Routes(),
		verificationHandler.Routes(),
		domain.Routing.Handler(domain.Cases).Routes(),
		domain.Checklist.Handler().Routes(),
		domain.Profiles.Handler(domain.Cases).Routes(),
		domain.Analyses.Handler(domain.Cases).Routes(),
	)
}
