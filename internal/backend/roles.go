package backend

import (
	"context"
	"fmt"
)

// RoleInput is the payload for creating or renaming a role.
type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Roles lists all roles.
func (c *Client) Roles(ctx context.Context, token string) ([]Role, error) {
	var out []Role
	if err := c.Get(ctx, token, "/roles", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateRole creates a role.
func (c *Client) CreateRole(ctx context.Context, token string, in RoleInput) (Role, error) {
	var out Role
	if err := c.Post(ctx, token, "/roles", in, &out); err != nil {
		return Role{}, err
	}

	return out, nil
}

// UpdateRole renames or redescribes a role. The screens refuse to rename
// system roles and roles in use before calling here.
func (c *Client) UpdateRole(ctx context.Context, token string, id int64, in RoleInput) (Role, error) {
	var out Role
	if err := c.Put(ctx, token, fmt.Sprintf("/roles/%d", id), in, &out); err != nil {
		return Role{}, err
	}

	return out, nil
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, token string, id int64) error {
	return c.Delete(ctx, token, fmt.Sprintf("/roles/%d", id))
}
