package backend

import (
	"context"
)

// LoginResult carries the access token issued by the procurement API. The
// token embeds the identity claims the portal decodes for display and role
// gating.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for an access token. Verification is entirely
// the API's business, the portal never sees a password hash.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult

	in := map[string]string{
		"email":    email,
		"password": password,
	}

	if err := c.Post(ctx, "", "/auth/login", in, &out); err != nil {
		return LoginResult{}, err
	}

	return out, nil
}
