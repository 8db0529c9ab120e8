package auth

import (
	"context"
	"net/url"

	"github.com/Sgiath/auth/pkg/idp"
)

// Scope is the resolved authorization context for one request or view
// mount. It is only ever built by the resolver and is treated as
// immutable once handed out. A nil *Scope is a first-class value
// meaning "unauthenticated".
type Scope struct {
	// User is the identity-provider record for the token subject.
	// Present iff the token verified and the user fetch succeeded.
	User *idp.User

	// Role is the role claim copied from the validated token, empty
	// when the claim was absent.
	Role string

	// Profile is application-defined data loaded via the configured
	// ProfileLoader; nil when no loader is configured or it returned
	// none.
	Profile any

	// Admin is the application-defined admin record. nil means "not
	// an admin" — presence is the only signal, there are no levels.
	Admin any

	// Org is the organization resolved from the session's stored
	// organization id; nil when no id was stored or lookup failed.
	Org *idp.Organization
}

// IdentityProvider is the provider API surface the core consumes.
// *idp.Client implements it; tests substitute fakes.
type IdentityProvider interface {
	GetUser(ctx context.Context, subjectID string) (*idp.User, error)
	Refresh(ctx context.Context, refreshToken string, params idp.RefreshParams) (*idp.TokenResponse, error)
	GetOrganization(ctx context.Context, id string) (*idp.Organization, error)
	CreateOrganization(ctx context.Context, name string) (*idp.Organization, error)
	CreateMembership(ctx context.Context, userID, orgID string) error
}

// ProfileLoader loads application profile data for a user. Returning
// (nil, nil) is a valid "no profile" answer.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, user *idp.User) (any, error)
}

// AdminLoader loads the application's admin record for a user, nil when
// the user is not an admin.
type AdminLoader interface {
	LoadAdmin(ctx context.Context, user *idp.User) (any, error)
}

// ReturnToProvider is optionally implemented by interactive views that
// know what path the user should come back to after a redirect through
// the refresh endpoint.
type ReturnToProvider interface {
	ReturnTo(params url.Values) string
}

// CorrelationID derives the view correlation id for a provider session
// id. It names the channel topic a host can broadcast on to force
// disconnect every view of that session.
func CorrelationID(sid string) string {
	return "sessions:" + sid
}
