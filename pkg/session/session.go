// Package session defines the contract this layer expects from the host
// application's session store. The layer never persists sessions itself;
// cookie, server-side, or encrypted-store persistence is the host's call.
package session

// Keys this layer reads and writes in the store. Hosts must not reuse
// these for their own data.
const (
	KeyAccessToken    = "access_token"
	KeyRefreshToken   = "refresh_token"
	KeyOrganizationID = "organization_id"
	KeyCorrelationID  = "correlation_id"
	KeyReturnTo       = "return_to"
)

// Store is the host-provided session backing one browser session.
// Implementations must be safe for use from a single request/mount
// context; they are never shared across concurrent contexts by this
// layer.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Put sets key to value.
	Put(key, value string)

	// Delete removes key.
	Delete(key string)

	// ClearAll removes every key, leaving an empty session.
	ClearAll()

	// RenewAntiForgeryToken rotates the CSRF token bound to the
	// session. Called when the session is invalidated so a stale
	// token can't be replayed into the fresh session.
	RenewAntiForgeryToken()
}
