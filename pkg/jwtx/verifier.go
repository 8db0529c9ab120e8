package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT string and returns its claims if it checks out.
// Implementations must be side-effect free and safe for concurrent use.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// KeySetVerifier validates tokens against a KeySet, pinning the issuer
// (the identity provider) and the audience (our client ID).
type KeySetVerifier struct {
	keys     *KeySet
	issuer   string
	audience []string
}

// NewVerifier builds a KeySetVerifier. issuer and audience may be empty
// to skip the respective check, but production deployments should always
// pin both.
func NewVerifier(keys *KeySet, issuer string, audience []string) *KeySetVerifier {
	return &KeySetVerifier{keys: keys, issuer: issuer, audience: audience}
}

// Verify parses and validates the token string. Any failure — unknown
// kid, bad signature, missing claims, wrong issuer, expiry — comes back
// as one of the package sentinels so callers can log the branch taken.
func (v *KeySetVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{
			jwt.SigningMethodRS256.Alg(),
			jwt.SigningMethodEdDSA.Alg(),
		}),
		// Registered-claim time checks are re-done in validateRequired
		// so that every failure maps onto our sentinel set.
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}
		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w: kid %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownKID) {
			return Claims{}, err
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrInvalidSig
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	if err := claims.validateRequired(v.issuer, v.audience); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
