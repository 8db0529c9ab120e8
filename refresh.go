package auth

import (
	"context"
	"errors"

	"github.com/Sgiath/auth/pkg/idp"
	"github.com/Sgiath/auth/pkg/session"
	"github.com/Sgiath/auth/pkg/slogx"
)

// resolveSession is the top-level resolution routine shared by the
// request pipeline: Resolve → RefreshOnce → Resolve, as an explicit
// two-step sequence rather than recursion, so the at-most-one-refresh
// invariant is visible in the control flow. The refresh marker is this
// function's local state — concurrent requests for the same session
// each get their own attempt.
func (a *Authenticator) resolveSession(ctx context.Context, store session.Store, withOrg bool) *Scope {
	log := slogx.FromContext(ctx)

	scope, err := a.resolveOnce(ctx, store, withOrg)
	switch {
	case err == nil:
		return scope
	case errors.Is(err, errNoToken):
		return nil
	case errors.Is(err, ErrLookup):
		log.Warn("scope resolution failed", "error", err)
		return nil
	}

	// Verification failed: one refresh attempt, then one re-resolve.
	log.Debug("access token invalid, attempting refresh", "error", err)
	if !a.refreshOnce(ctx, store, "") {
		return nil
	}

	scope, err = a.resolveOnce(ctx, store, withOrg)
	switch {
	case err == nil:
		return scope
	case errors.Is(err, ErrLookup):
		log.Warn("scope resolution failed after refresh", "error", err)
		return nil
	default:
		// The freshly minted token failed verification too. A second
		// exchange against a provider in this state would loop forever.
		log.Warn("refreshed token failed verification, invalidating session", "error", err)
		a.invalidateSession(ctx, store)
		return nil
	}
}

// refreshOnce performs the refresh-token exchange and stores the new
// token pair (and organization id, when the provider returns one).
// Returns false when the session was invalidated instead.
func (a *Authenticator) refreshOnce(ctx context.Context, store session.Store, targetOrgID string) bool {
	log := slogx.FromContext(ctx)

	refreshToken, ok := store.Get(session.KeyRefreshToken)
	if !ok || refreshToken == "" {
		log.Debug("no refresh token in session, invalidating")
		a.invalidateSession(ctx, store)
		return false
	}

	tok, err := a.provider.Refresh(ctx, refreshToken, idp.RefreshParams{
		OrganizationID: targetOrgID,
	})
	if err != nil {
		log.Warn("refresh exchange failed, invalidating session", "error", err)
		a.invalidateSession(ctx, store)
		return false
	}

	store.Put(session.KeyAccessToken, tok.AccessToken)
	store.Put(session.KeyRefreshToken, tok.RefreshToken)
	if tok.OrganizationID != "" {
		store.Put(session.KeyOrganizationID, tok.OrganizationID)
	}

	log.Debug("session refreshed", "org_id", tok.OrganizationID)
	return true
}

// invalidateSession clears every session key and rotates the
// anti-forgery token so nothing from the dead session survives into the
// next one. Degrading to the unauthenticated state is the whole
// recovery; no error reaches the caller.
func (a *Authenticator) invalidateSession(ctx context.Context, store session.Store) {
	store.ClearAll()
	store.RenewAntiForgeryToken()
	slogx.FromContext(ctx).Debug("session invalidated")
}

// RefreshSession forces one refresh-token exchange and resolves the
// resulting scope. targetOrgID, when non-empty, switches the session to
// that organization as part of the exchange. This is what the host's
// refresh endpoint handler calls; a failed exchange leaves an empty
// session and a nil scope.
func (a *Authenticator) RefreshSession(ctx context.Context, store session.Store, targetOrgID string) *Scope {
	log := slogx.FromContext(ctx)

	if !a.refreshOnce(ctx, store, targetOrgID) {
		return nil
	}

	scope, err := a.resolveOnce(ctx, store, true)
	if err != nil {
		if !errors.Is(err, ErrLookup) {
			log.Warn("refreshed token failed verification, invalidating session", "error", err)
			a.invalidateSession(ctx, store)
			return nil
		}
		log.Warn("scope resolution failed after refresh", "error", err)
		return nil
	}

	return scope
}
