package backend

import (
	"context"
	"fmt"
)

// UserInput is the payload for creating or updating a portal account.
// Roles carries the complete desired role name set, the API replaces the
// previous assignment.
type UserInput struct {
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Password   string   `json:"password,omitempty"`
	IsActive   bool     `json:"isActive"`
	Department string   `json:"department,omitempty"`
	Roles      []string `json:"roles"`
}

// AdminUsers lists portal accounts, optionally filtered by a search term.
func (c *Client) AdminUsers(ctx context.Context, token, search string) ([]User, error) {
	path := "/users/admin"
	if search != "" {
		path += "?search=" + queryEscape(search)
	}

	var out []User
	if err := c.Get(ctx, token, path, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// AdminUser fetches a single portal account.
func (c *Client) AdminUser(ctx context.Context, token string, id int64) (User, error) {
	var out User
	if err := c.Get(ctx, token, fmt.Sprintf("/users/admin/%d", id), &out); err != nil {
		return User{}, err
	}

	return out, nil
}

// CreateUser creates a portal account.
func (c *Client) CreateUser(ctx context.Context, token string, in UserInput) (User, error) {
	var out User
	if err := c.Post(ctx, token, "/users/admin", in, &out); err != nil {
		return User{}, err
	}

	return out, nil
}

// UpdateUser updates a portal account.
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in UserInput) (User, error) {
	var out User
	if err := c.Put(ctx, token, fmt.Sprintf("/users/admin/%d", id), in, &out); err != nil {
		return User{}, err
	}

	return out, nil
}

// DeleteUser removes a portal account. System accounts are rejected by the
// API.
func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.Delete(ctx, token, fmt.Sprintf("/users/admin/%d", id))
}

// LookupUsersByRole returns the candidates holding a role, used to fill
// assignment pickers. Callers degrade a failed lookup to an empty list so a
// broken role never blocks the rest of the page.
func (c *Client) LookupUsersByRole(ctx context.Context, token, role string) ([]User, error) {
	var out []User

	path := "/users/lookup?role=" + queryEscape(role)
	if err := c.Get(ctx, token, path, &out); err != nil {
		return nil, err
	}

	return out, nil
}
