package idp

// User is the identity provider's user record. ID is the token subject.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`

	// Attributes carries any provider fields we don't model.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// DisplayName returns the best human-readable name we can assemble for
// the user, falling back to the email address.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// Organization is the identity provider's organization record.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TokenResponse is what a refresh-token exchange returns. The provider
// includes an organization id when the session is (or became) bound to
// an organization.
type TokenResponse struct {
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// RefreshParams are optional knobs for a refresh-token exchange.
type RefreshParams struct {
	// OrganizationID asks the provider to re-issue the session bound
	// to a different organization (org switch). Empty keeps the
	// session's current binding.
	OrganizationID string
}
