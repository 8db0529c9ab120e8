package idp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Refresh exchanges a refresh token for a fresh token pair. Pass an
// OrganizationID in params to switch the session to another
// organization as part of the exchange.
//
// The provider's exchange is safely repeatable: concurrent requests for
// the same session may each attempt it independently and either get a
// pair or fail fast on a stale token.
func (c *Client) Refresh(ctx context.Context, refreshToken string, params RefreshParams) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.ClientID},
	}
	if params.OrganizationID != "" {
		data.Set("organization_id", params.OrganizationID)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/oauth2/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}

	return &tok, nil
}
