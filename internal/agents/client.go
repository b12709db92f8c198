// Package agents provides the shared LLM caller used by verification and
// analysis systems. It wraps a configured agent with a circuit breaker and
// rate limiter; failed calls are never retried automatically.
package agents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Caller issues a single prompt to the underlying model and returns the raw
// response content. Implementations must honor context cancellation.
type Caller interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
	ProviderName() string
}

// Client is the production Caller backed by go-agents.
type Client struct {
	cfg     gaconfig.AgentConfig
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Options tune client resilience. Zero values select sensible defaults.
type Options struct {
	// RequestsPerSecond caps the sustained call rate to the provider.
	RequestsPerSecond float64
	// Burst is the limiter burst size.
	Burst int
	// BreakerTimeout is how long the breaker stays open after tripping.
	BreakerTimeout time.Duration
}

// NewClient creates a Client from an agent configuration.
func NewClient(cfg gaconfig.AgentConfig, opts Options, logger *slog.Logger) *Client {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 4
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "agent",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		cfg:     cfg,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:  logger.With("system", "agents"),
	}
}

// Generate sends prompt through the rate limiter and circuit breaker to the
// configured model and returns the response content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	content, err := c.breaker.Execute(func() (string, error) {
		a, err := agent.New(&c.cfg)
		if err != nil {
			return "", fmt.Errorf("create agent: %w", err)
		}

		resp, err := a.Chat(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("chat call: %w", err)
		}

		return resp.Content(), nil
	})

	if err != nil {
		c.logger.Warn("agent call failed", "error", err)
		return "", err
	}

	return content, nil
}

// ModelName returns the configured model name.
func (c *Client) ModelName() string {
	if c.cfg.Model == nil {
		return ""
	}
	return c.cfg.Model.Name
}

// ProviderName returns the configured provider name.
func (c *Client) ProviderName() string {
	if c.cfg.Provider == nil {
		return ""
	}
	return c.cfg.Provider.Name
}
