package auth

import (
	"context"
	"net/http"

	"github.com/Sgiath/auth/pkg/httpx"
	"github.com/Sgiath/auth/pkg/idx"
	"github.com/Sgiath/auth/pkg/session"
	"github.com/Sgiath/auth/pkg/slogx"
)

// StoreProvider hands the core the session store for a request. Session
// transport (cookie name, encryption, server-side lookup) is the host's
// business.
type StoreProvider func(*http.Request) session.Store

type scopeCtxKey struct{}

// ScopeFromContext returns the scope resolved by the Authenticate
// middleware, or nil when the request is unauthenticated.
func ScopeFromContext(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeCtxKey{}).(*Scope)
	return s
}

// ContextWithScope attaches a scope to a context. Mainly for tests and
// hosts that resolve scopes outside the middleware.
func ContextWithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, scope)
}

// Authenticate resolves the session into a scope once per request and
// stows it in the request context. Token refresh (at most one attempt)
// and organization resolution happen here, upstream of any Require
// gate. Unauthenticated requests pass through with a nil scope; halting
// is the gates' job.
func (a *Authenticator) Authenticate(stores StoreProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := slogx.WithRequestID(r.Context(), idx.New().String())

			scope := a.resolveSession(ctx, stores(r), true)
			ctx = ContextWithScope(ctx, scope)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require halts requests whose context scope does not satisfy the
// policy. Must run below Authenticate. Denials are silent redirects:
// sign-in redirects park the current path in the session (GET-like
// requests only) so the callback handler can send the user back, no-org
// redirects carry the path as a return_to query parameter, and admin
// denials go home with nothing.
func (a *Authenticator) Require(policy Policy, stores StoreProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ScopeFromContext(r.Context())

			decision := a.Evaluate(policy, scope)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(r.Context()).Debug("authorization denied",
				"policy", policy.String(),
				"redirect", decision.RedirectPath,
			)

			if decision.RedirectPath == a.cfg.SignInPath {
				if isGetLike(r) {
					stores(r).Put(session.KeyReturnTo, r.URL.RequestURI())
				}
				httpx.Redirect(w, r, decision.RedirectPath, "")
				return
			}

			returnTo := ""
			if decision.WithReturnTo && isGetLike(r) {
				returnTo = r.URL.RequestURI()
			}
			httpx.Redirect(w, r, decision.RedirectPath, returnTo)
		})
	}
}

func isGetLike(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}
