package idp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// GetOrganization fetches an organization by id.
func (c *Client) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/organizations/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var org Organization
	if err := decodeJSON(resp, &org, http.StatusOK); err != nil {
		return nil, err
	}

	return &org, nil
}

// CreateOrganization creates a new organization with the given name.
func (c *Client) CreateOrganization(ctx context.Context, name string) (*Organization, error) {
	data := url.Values{"name": {name}}

	resp, err := c.doRequest(ctx, http.MethodPost, "/organizations", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}

	var org Organization
	if err := decodeJSON(resp, &org, http.StatusCreated); err != nil {
		return nil, err
	}

	return &org, nil
}

// CreateMembership adds a user to an organization.
func (c *Client) CreateMembership(ctx context.Context, userID, orgID string) error {
	data := url.Values{
		"user_id":         {userID},
		"organization_id": {orgID},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/organization_memberships", strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}

	return decodeJSON(resp, nil, http.StatusCreated)
}
