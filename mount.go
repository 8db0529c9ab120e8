package auth

import (
	"context"
	"net/url"

	"github.com/Sgiath/auth/pkg/httpx"
	"github.com/Sgiath/auth/pkg/session"
	"github.com/Sgiath/auth/pkg/slogx"
)

// MountRedirect is a halted view mount: the view must not render and
// the client is sent to URL instead.
type MountRedirect struct {
	URL string
}

// OnMount is the view-mount surface of the authorization gate. It is
// self-contained: the scope is resolved lazily from the session store
// at mount time, without assuming the request pipeline ran first.
//
// Unlike the pipeline, an invalid or expired token is not exchanged
// here — the refresh endpoint owns that — so the mount halts with a
// redirect to the refresh path, carrying the return target the view
// supplies via ReturnToProvider (falling back to the home path). A
// session with no access token at all goes straight to sign-in.
//
// Organization state is read as already resolved into the session by a
// prior pipeline pass; mounts never create organizations.
func (a *Authenticator) OnMount(ctx context.Context, policy Policy, store session.Store, view any, params url.Values) (*Scope, *MountRedirect) {
	log := slogx.FromContext(ctx)

	var scope *Scope

	token, ok := store.Get(session.KeyAccessToken)
	if ok && token != "" {
		claims, err := a.verifier.Verify(token)
		if err != nil {
			log.Debug("mount token invalid, redirecting to refresh", "error", err)
			return nil, &MountRedirect{
				URL: httpx.RedirectURL(a.cfg.RefreshPath, a.viewReturnTo(view, params)),
			}
		}

		scope, err = a.buildScope(ctx, claims)
		if err != nil {
			log.Warn("mount scope resolution failed", "error", err)
			scope = nil
		} else {
			store.Put(session.KeyCorrelationID, CorrelationID(claims.SID))
			a.mountOrganization(ctx, store, scope)
		}
	}

	decision := a.Evaluate(policy, scope)
	if decision.Allowed {
		return scope, nil
	}

	log.Debug("mount authorization denied",
		"policy", policy.String(),
		"redirect", decision.RedirectPath,
	)

	if decision.RedirectPath == a.cfg.SignInPath {
		return nil, &MountRedirect{URL: a.cfg.SignInPath}
	}

	returnTo := ""
	if decision.WithReturnTo {
		returnTo = a.viewReturnTo(view, params)
	}
	return nil, &MountRedirect{URL: httpx.RedirectURL(decision.RedirectPath, returnTo)}
}

// mountOrganization fills Scope.Org from the session's organization id.
// Lookup only: auto-provisioning is a pipeline concern.
func (a *Authenticator) mountOrganization(ctx context.Context, store session.Store, scope *Scope) {
	orgID, ok := store.Get(session.KeyOrganizationID)
	if !ok || orgID == "" {
		return
	}

	org, err := a.provider.GetOrganization(ctx, orgID)
	if err != nil {
		slogx.FromContext(ctx).Warn("mount organization lookup failed", "org_id", orgID, "error", err)
		return
	}
	scope.Org = org
}

// viewReturnTo asks the view for its return target, defaulting to the
// home path when the view doesn't provide one.
func (a *Authenticator) viewReturnTo(view any, params url.Values) string {
	if p, ok := view.(ReturnToProvider); ok {
		if rt := p.ReturnTo(params); rt != "" {
			return rt
		}
	}
	return a.cfg.HomePath
}
