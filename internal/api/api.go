// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"net/http"

	"github.com/advocate-project/advocate/internal/config"
	"github.com/advocate-project/advocate/internal/infrastructure"
	"github.com/advocate-project/advocate/pkg/middleware"
	"github.com/advocate-project/advocate/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The metrics middleware is optional; pass nil to skip instrumentation.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	metrics *middleware.HTTPMetrics,
) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	authenticator, err := middleware.NewAuthenticator(ctx, &cfg.API.Auth)
	if err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(authenticator.Middleware())
	if metrics != nil {
		m.Use(metrics.Middleware())
	}
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
