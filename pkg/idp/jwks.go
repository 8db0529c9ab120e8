package idp

import (
	"context"
	"net/http"

	"github.com/Sgiath/auth/pkg/jwtx"
)

// GetJWKS retrieves the provider's current signing keys. Satisfies
// jwtx.KeysFetcher so the client can back a KeySetCache directly.
func (c *Client) GetJWKS(ctx context.Context) (jwtx.JWKS, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil)
	if err != nil {
		return jwtx.JWKS{}, err
	}

	var jwks jwtx.JWKS
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return jwtx.JWKS{}, err
	}

	return jwks, nil
}
