// Package auth is a session-authentication layer for web applications.
// It resolves an opaque session into a verified identity, enriches it
// with organization membership, admin status, and an application
// profile, and enforces three nested authorization levels from both a
// request middleware and an interactive-view mount gate.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Sgiath/auth/pkg/idp"
	"github.com/Sgiath/auth/pkg/jwtx"
)

// Authenticator wires the verifier, the identity provider client, and
// the application callbacks together. One instance serves all requests.
type Authenticator struct {
	cfg      Config
	provider IdentityProvider
	verifier jwtx.Verifier
	keys     *jwtx.KeySetCache
	profile  ProfileLoader
	admin    AdminLoader
	log      *slog.Logger
}

// Option customises an Authenticator.
type Option func(*Authenticator)

// WithLogger sets the base logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Authenticator) { a.log = log }
}

// WithProvider substitutes the identity provider client.
func WithProvider(p IdentityProvider) Option {
	return func(a *Authenticator) { a.provider = p }
}

// WithVerifier substitutes the token verifier. When set, no key set
// cache is created and Start/Stop become no-ops.
func WithVerifier(v jwtx.Verifier) Option {
	return func(a *Authenticator) { a.verifier = v }
}

// WithProfileLoader configures the application profile callback.
func WithProfileLoader(l ProfileLoader) Option {
	return func(a *Authenticator) { a.profile = l }
}

// WithAdminLoader configures the application admin callback. Only
// consulted when Config.AdminSource is AdminFromCallback.
func WithAdminLoader(l AdminLoader) Option {
	return func(a *Authenticator) { a.admin = l }
}

// New validates the config and builds an Authenticator. By default it
// creates an idp.Client for the configured provider and a verifier
// backed by a periodically refreshed key set cache; call Start to begin
// key polling and Stop on shutdown.
func New(cfg Config, opts ...Option) (*Authenticator, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Authenticator{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	if a.provider == nil {
		a.provider = idp.NewClient(cfg.ProviderURL, cfg.ClientID, cfg.ClientSecret)
	}

	if a.verifier == nil {
		fetcher, ok := a.provider.(jwtx.KeysFetcher)
		if !ok {
			return nil, errors.New("auth: provider cannot fetch keys, configure WithVerifier")
		}
		a.keys = jwtx.NewKeySetCache(fetcher, a.log, cfg.KeyRefreshInterval)
		a.verifier = jwtx.NewVerifier(a.keys.Keys, cfg.ProviderURL, []string{cfg.ClientID})
	}

	return a, nil
}

// Start begins background key polling. Non-blocking; safe to call when
// a custom verifier was configured (no-op).
func (a *Authenticator) Start(ctx context.Context) {
	if a.keys != nil {
		a.keys.Start(ctx)
	}
}

// Stop shuts down background key polling.
func (a *Authenticator) Stop() {
	if a.keys != nil {
		a.keys.Stop()
	}
}

// Config returns the effective configuration.
func (a *Authenticator) Config() Config {
	return a.cfg
}
