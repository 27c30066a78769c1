// Package app wires configuration, logging and the reference client into
// the axioparse command tree.
package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/axioparse/axioparse/internal/ncbi"
	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/resolver"
)

// App holds the CLI's configuration and lazily built dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Reference client (lazy-initialized, singleton)
	mu     sync.Mutex
	client resolver.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the reference client, creating it on first use. Building
// the NCBI client requires credentials.
func (a *App) Client() (resolver.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}
	if err := a.config.ValidateCredentials(); err != nil {
		return nil, err
	}

	a.client = ncbi.NewClient(ncbi.Config{
		BaseURL:      a.config.NCBIBaseURL,
		APIKey:       a.config.NCBIKey,
		Email:        a.config.NCBIEmail,
		Tool:         a.config.NCBITool,
		CallInterval: a.config.CallInterval,
		FetchBackoff: a.config.FetchBackoff,
		HTTPClient:   &http.Client{Timeout: a.config.Timeout},
		Logger:       a.logger,
	})
	a.logger.Debug().
		Str("base_url", a.config.NCBIBaseURL).
		Str("email", a.config.NCBIEmail).
		Msg("Reference client ready")
	return a.client, nil
}

// Resolver builds a resolver over the reference client.
func (a *App) Resolver(opts resolver.Options) (*resolver.Resolver, error) {
	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	opts.Logger = a.logger
	return resolver.New(client, opts), nil
}

// ResolverOptions returns resolver options from configuration.
func (a *App) ResolverOptions() resolver.Options {
	return resolver.Options{
		MaxCandidates:    a.config.MaxCandidates,
		FetchRetries:     a.config.FetchRetries,
		PreferExactMatch: a.config.PreferExactMatch,
		Workers:          a.config.Workers,
	}
}

// Shutdown releases idle connections held by the reference client.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()

	if closer, ok := client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return ctx.Err()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config must not be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets the reference client (useful for testing).
func WithClient(client resolver.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
