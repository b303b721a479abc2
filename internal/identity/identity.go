// Package identity models the signed-in user as presented by the procurement
// API access token.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims carries the identity claims the procurement API embeds in its
// access tokens.
type Claims struct {
	UserID   string   `json:"uid"`
	FullName string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity is the signed-in user as far as the portal is concerned.
type Identity struct {
	ID       string
	FullName string
	Email    string
	Roles    []string
}

// ErrMalformedToken is returned when an access token can not be decoded.
var ErrMalformedToken = errors.New("malformed access token")

// FromToken decodes the identity embedded in an access token issued by the
// procurement API. The signature is not checked here: the API is the only
// party that accepts the token back and verifies it on every call, the
// portal only reads the display claims.
func FromToken(token string) (Identity, error) {
	var claims Claims

	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Identity{}, errors.Wrap(ErrMalformedToken, err.Error())
	}

	ident := Identity{
		ID:       claims.UserID,
		FullName: claims.FullName,
		Email:    claims.Email,
		Roles:    normalizeRoles(claims.Roles),
	}

	if ident.ID == "" {
		ident.ID = claims.Subject
	}

	return ident, nil
}

// HasAnyRole reports whether the identity holds at least one of the given
// roles. An empty identity never matches anything.
func (i Identity) HasAnyRole(roles ...string) bool {
	for _, have := range i.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}

	return false
}

// normalizeRoles drops blank entries so a sloppy token can not produce a
// phantom role.
func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))

	for _, r := range roles {
		if strings.TrimSpace(r) == "" {
			continue
		}

		out = append(out, r)
	}

	return out
}
