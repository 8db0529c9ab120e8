package idp

import (
	"context"
	"net/http"
	"net/url"
)

// GetUser fetches the user record for a token subject id.
func (c *Client) GetUser(ctx context.Context, subjectID string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(subjectID), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}
