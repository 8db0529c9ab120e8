package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Sgiath/auth/pkg/idp"
	"github.com/Sgiath/auth/pkg/jwtx"
)

// fakeVerifier accepts exactly the tokens it was given claims for.
// Everything else fails as expired, the common invalid-token case.
type fakeVerifier struct {
	claims map[string]jwtx.Claims
}

func (f *fakeVerifier) Verify(token string) (jwtx.Claims, error) {
	if c, ok := f.claims[token]; ok {
		return c, nil
	}
	return jwtx.Claims{}, jwtx.ErrExpired
}

// fakeProvider is an in-memory identity provider with call counters.
type fakeProvider struct {
	mu    sync.Mutex
	users map[string]*idp.User
	orgs  map[string]*idp.Organization

	refreshFn    func(refreshToken string, params idp.RefreshParams) (*idp.TokenResponse, error)
	refreshCalls int

	userErr       error
	orgErr        error
	createOrgErr  error
	membershipErr error

	createdOrgs []string
	memberships [][2]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		users: map[string]*idp.User{
			"user_1": {ID: "user_1", Email: "jo@example.com", FirstName: "Jo", LastName: "Smith"},
		},
		orgs: map[string]*idp.Organization{
			"org_1": {ID: "org_1", Name: "Acme"},
		},
	}
}

func (f *fakeProvider) GetUser(_ context.Context, subjectID string) (*idp.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	if u, ok := f.users[subjectID]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeProvider) Refresh(_ context.Context, refreshToken string, params idp.RefreshParams) (*idp.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshFn == nil {
		return nil, errors.New("refresh not configured")
	}
	return f.refreshFn(refreshToken, params)
}

func (f *fakeProvider) GetOrganization(_ context.Context, id string) (*idp.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orgErr != nil {
		return nil, f.orgErr
	}
	if o, ok := f.orgs[id]; ok {
		return o, nil
	}
	return nil, errors.New("organization not found")
}

func (f *fakeProvider) CreateOrganization(_ context.Context, name string) (*idp.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrgErr != nil {
		return nil, f.createOrgErr
	}
	org := &idp.Organization{ID: "org_created", Name: name}
	f.orgs[org.ID] = org
	f.createdOrgs = append(f.createdOrgs, name)
	return org, nil
}

func (f *fakeProvider) CreateMembership(_ context.Context, userID, orgID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.membershipErr != nil {
		return f.membershipErr
	}
	f.memberships = append(f.memberships, [2]string{userID, orgID})
	return nil
}

func (f *fakeProvider) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// profileFunc / adminFunc adapt plain functions to the loader interfaces.
type profileFunc func(ctx context.Context, user *idp.User) (any, error)

func (fn profileFunc) LoadProfile(ctx context.Context, user *idp.User) (any, error) {
	return fn(ctx, user)
}

type adminFunc func(ctx context.Context, user *idp.User) (any, error)

func (fn adminFunc) LoadAdmin(ctx context.Context, user *idp.User) (any, error) {
	return fn(ctx, user)
}

func testConfig() Config {
	return Config{
		ProviderURL:  "https://idp.example.com",
		ClientID:     "client_test",
		ClientSecret: "secret_test",
		NoOrgPath:    "/setup",
	}
}

func testClaims(sub, sid string) jwtx.Claims {
	return jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
		SID:              sid,
		Role:             "member",
	}
}

// newTestAuth wires an Authenticator with the fakes. The verifier
// accepts the single token "at_valid" as user_1/sess_1 unless more
// tokens are registered on the returned fakeVerifier.
func newTestAuth(t *testing.T, cfg Config, opts ...Option) (*Authenticator, *fakeProvider, *fakeVerifier) {
	t.Helper()

	provider := newFakeProvider()
	verifier := &fakeVerifier{claims: map[string]jwtx.Claims{
		"at_valid": testClaims("user_1", "sess_1"),
	}}

	opts = append([]Option{WithProvider(provider), WithVerifier(verifier)}, opts...)
	a, err := New(cfg, opts...)
	require.NoError(t, err)

	return a, provider, verifier
}
