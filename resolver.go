package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sgiath/auth/pkg/jwtx"
	"github.com/Sgiath/auth/pkg/session"
	"github.com/Sgiath/auth/pkg/slogx"
)

// errNoToken reports a session without any access token. Distinct from
// a verification failure: there is nothing to refresh.
var errNoToken = errors.New("auth: no access token in session")

// ErrLookup reports an identity-provider lookup failure during scope
// construction. It degrades to an absent scope, never to a partial one,
// and never triggers a refresh.
var ErrLookup = errors.New("auth: identity lookup failed")

// resolveOnce runs a single Validate → Resolve pass against the session.
// It never mutates the token slots; the only write is the correlation
// id on success. Error classes the caller dispatches on: errNoToken,
// ErrLookup, and anything else, which is a verification failure.
func (a *Authenticator) resolveOnce(ctx context.Context, store session.Store, withOrg bool) (*Scope, error) {
	token, ok := store.Get(session.KeyAccessToken)
	if !ok || token == "" {
		return nil, errNoToken
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	scope, err := a.buildScope(ctx, claims)
	if err != nil {
		return nil, err
	}

	store.Put(session.KeyCorrelationID, CorrelationID(claims.SID))

	if withOrg {
		a.resolveOrganization(ctx, store, scope)
	}

	return scope, nil
}

// buildScope turns verified claims into a fully populated Scope. Pure
// read+compose: user fetch, then the optional profile and admin
// callbacks. Organization state lives in the session, which this step
// does not own, so org resolution is the caller's job.
func (a *Authenticator) buildScope(ctx context.Context, claims jwtx.Claims) (*Scope, error) {
	log := slogx.FromContext(ctx)

	user, err := a.provider.GetUser(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s: %w", ErrLookup, claims.Subject, err)
	}

	scope := &Scope{
		User: user,
		Role: claims.Role,
	}

	if a.profile != nil {
		profile, err := a.profile.LoadProfile(ctx, user)
		if err != nil {
			log.Warn("profile callback failed", "user_id", user.ID, "error", err)
		} else {
			scope.Profile = profile
		}
	}

	switch a.cfg.AdminSource {
	case AdminFromActClaim:
		if claims.Act != nil && claims.Act.Sub != "" {
			scope.Admin = claims.Act.Sub
		}
	default:
		if a.admin != nil {
			admin, err := a.admin.LoadAdmin(ctx, user)
			if err != nil {
				log.Warn("admin callback failed", "user_id", user.ID, "error", err)
			} else {
				scope.Admin = admin
			}
		}
	}

	return scope, nil
}

// resolveOrganization fills Scope.Org from the session's organization
// id. With auto-create enabled and no id stored, it provisions an
// organization plus a membership for the user and persists the new id.
// Any failure leaves Org nil; users without an organization are handled
// by the organization policy, not by errors.
func (a *Authenticator) resolveOrganization(ctx context.Context, store session.Store, scope *Scope) {
	log := slogx.FromContext(ctx)

	if orgID, ok := store.Get(session.KeyOrganizationID); ok && orgID != "" {
		org, err := a.provider.GetOrganization(ctx, orgID)
		if err != nil {
			log.Warn("organization lookup failed", "org_id", orgID, "error", err)
			return
		}
		scope.Org = org
		return
	}

	if !a.cfg.AutoCreateOrg {
		return
	}

	org, err := a.provider.CreateOrganization(ctx, scope.User.DisplayName())
	if err != nil {
		log.Warn("organization auto-create failed", "user_id", scope.User.ID, "error", err)
		return
	}

	if err := a.provider.CreateMembership(ctx, scope.User.ID, org.ID); err != nil {
		log.Warn("membership create failed", "user_id", scope.User.ID, "org_id", org.ID, "error", err)
		return
	}

	store.Put(session.KeyOrganizationID, org.ID)
	scope.Org = org
	log.Debug("organization auto-created", "org_id", org.ID, "user_id", scope.User.ID)
}
