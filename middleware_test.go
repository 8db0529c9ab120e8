package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sgiath/auth/pkg/idp"
	"github.com/Sgiath/auth/pkg/session"
)

func newPipeline(a *Authenticator, store session.Store, policy Policy, inner http.Handler) http.Handler {
	stores := func(*http.Request) session.Store { return store }
	return a.Authenticate(stores)(a.Require(policy, stores)(inner))
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("resolved scope lands in the request context", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())
		store := session.NewMemoryStore()
		store.Put(session.KeyAccessToken, "at_valid")

		var seen *Scope
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ScopeFromContext(r.Context())
		})

		handler := a.Authenticate(func(*http.Request) session.Store { return store })(inner)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.NotNil(t, seen)
		require.Equal(t, "user_1", seen.User.ID)
	})

	t.Run("empty session passes through with nil scope", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())
		store := session.NewMemoryStore()

		called := false
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			require.Nil(t, ScopeFromContext(r.Context()))
		})

		handler := a.Authenticate(func(*http.Request) session.Store { return store })(inner)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.True(t, called, "halting belongs to the gates, not Authenticate")
	})
}

func TestRequireMiddleware(t *testing.T) {
	t.Parallel()

	blocked := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler must not run on a denied request")
	})
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no session redirects every policy to sign-in", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())

		for _, policy := range []Policy{PolicyAuthenticated, PolicyOrganization, PolicyAdmin} {
			store := session.NewMemoryStore()
			w := httptest.NewRecorder()
			newPipeline(a, store, policy, blocked).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

			require.Equal(t, http.StatusFound, w.Code, policy.String())
			require.Equal(t, "/sign-in", w.Header().Get("Location"), policy.String())

			returnTo, ok := store.Get(session.KeyReturnTo)
			require.True(t, ok, policy.String())
			require.Equal(t, "/private", returnTo, policy.String())
		}
	})

	t.Run("return-to is not stored for non-GET requests", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())
		store := session.NewMemoryStore()

		w := httptest.NewRecorder()
		newPipeline(a, store, PolicyAuthenticated, blocked).
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/private", nil))

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/sign-in", w.Header().Get("Location"))

		_, ok := store.Get(session.KeyReturnTo)
		require.False(t, ok)
	})

	t.Run("organization policy without org redirects with return_to", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())
		store := session.NewMemoryStore()
		store.Put(session.KeyAccessToken, "at_valid")
		// No organization id in the session and auto-create is off.

		w := httptest.NewRecorder()
		newPipeline(a, store, PolicyOrganization, blocked).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/setup?return_to=%2Fdashboard", w.Header().Get("Location"))
	})

	t.Run("organization policy with org continues", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())
		store := session.NewMemoryStore()
		store.Put(session.KeyAccessToken, "at_valid")
		store.Put(session.KeyOrganizationID, "org_1")

		w := httptest.NewRecorder()
		newPipeline(a, store, PolicyOrganization, ok).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-admin is sent home silently", func(t *testing.T) {
		a, _, _ := newTestAuth(t, testConfig())
		store := session.NewMemoryStore()
		store.Put(session.KeyAccessToken, "at_valid")

		w := httptest.NewRecorder()
		newPipeline(a, store, PolicyAdmin, blocked).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"), "admin denial carries no return target and no message")

		_, hasReturnTo := store.Get(session.KeyReturnTo)
		require.False(t, hasReturnTo)
	})

	t.Run("admin continues", func(t *testing.T) {
		loader := adminFunc(func(_ context.Context, _ *idp.User) (any, error) {
			return "admin_record", nil
		})
		a, _, _ := newTestAuth(t, testConfig(), WithAdminLoader(loader))
		store := session.NewMemoryStore()
		store.Put(session.KeyAccessToken, "at_valid")

		w := httptest.NewRecorder()
		newPipeline(a, store, PolicyAdmin, ok).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

		require.Equal(t, http.StatusOK, w.Code)
	})
}
