package jwtx

import (
	"context"
	"log/slog"
	"time"
)

// KeysFetcher fetches the identity provider's current JWKS. The idp
// client implements this.
type KeysFetcher interface {
	GetJWKS(ctx context.Context) (JWKS, error)
}

// DefaultKeyRefreshInterval is short on purpose: the provider rotates
// keys without notice and a stale set only shows up as verification
// failures, which in turn burn refresh attempts.
const DefaultKeyRefreshInterval = 2 * time.Second

// KeySetCache keeps a KeySet fresh by polling the provider's JWKS
// endpoint on a fixed interval from a single background goroutine.
// A failed fetch is logged and the previous snapshot stays live; there
// is no backoff because the interval is short and a no-op retry is cheap.
type KeySetCache struct {
	Keys     *KeySet
	Fetcher  KeysFetcher
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewKeySetCache creates a cache around a fresh empty KeySet.
// If interval is 0 or negative, DefaultKeyRefreshInterval is used.
func NewKeySetCache(fetcher KeysFetcher, logger *slog.Logger, interval time.Duration) *KeySetCache {
	if interval <= 0 {
		interval = DefaultKeyRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KeySetCache{
		Keys:     NewKeySet(),
		Fetcher:  fetcher,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. Non-blocking; the first
// fetch happens immediately so tokens can be verified as soon as the
// provider is reachable. Call Stop to shut the loop down.
func (c *KeySetCache) Start(ctx context.Context) {
	go c.run(ctx)
	c.Logger.Debug("key set cache started", "interval", c.Interval)
}

// Stop shuts down the refresh loop and blocks until it has exited.
func (c *KeySetCache) Stop() {
	close(c.stopCh)
	<-c.doneCh
	c.Logger.Debug("key set cache stopped")
}

func (c *KeySetCache) run(ctx context.Context) {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	c.Refresh(ctx)

	for {
		select {
		case <-ticker.C:
			c.Refresh(ctx)
		case <-c.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Refresh fetches the JWKS once and publishes it on success. On any
// failure the previously published keys are retained untouched — a
// transient fetch error must never evict still-valid keys.
func (c *KeySetCache) Refresh(ctx context.Context) {
	jwks, err := c.Fetcher.GetJWKS(ctx)
	if err != nil {
		c.Logger.Warn("jwks fetch failed, keeping previous key set", "error", err)
		return
	}

	if err := c.Keys.ResetFromJWKS(jwks); err != nil {
		c.Logger.Warn("jwks parse failed, keeping previous key set", "error", err)
		return
	}

	c.Logger.Debug("key set refreshed", "num_keys", len(jwks.Keys))
}
