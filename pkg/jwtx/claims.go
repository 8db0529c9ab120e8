package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrMissingClaim = errors.New("jwtx: required claim missing")
)

// Actor is the RFC 8693 "act" claim: the delegate acting on behalf of
// the subject. We only care about who the delegate is.
type Actor struct {
	Sub string `json:"sub"`
}

// Claims are the access-token claims issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the provider-side session ID. Required: it keys the
	// per-session correlation id we hand to interactive views.
	SID string `json:"sid,omitempty"`

	// Role is the user's role within their organization, if any.
	Role string `json:"role,omitempty"`

	// Act identifies an impersonating admin, when present.
	Act *Actor `json:"act,omitempty"`
}

// validateRequired checks the claims this layer cannot work without.
// Signature and algorithm checks belong to the Verifier; this is only
// about claim presence and registered-claim semantics.
func (c *Claims) validateRequired(issuer string, audience []string) error {
	if c.Subject == "" || c.SID == "" {
		return ErrMissingClaim
	}
	if c.ExpiresAt == nil {
		return ErrMissingClaim
	}

	if issuer != "" && c.Issuer != issuer {
		return ErrIssuer
	}

	if len(audience) > 0 {
		found := false
		for _, want := range audience {
			for _, have := range c.Audience {
				if have == want {
					found = true
				}
			}
		}
		if !found {
			return ErrAudience
		}
	}

	now := time.Now().UTC()
	if now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
