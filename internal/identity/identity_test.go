package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tenderdesk/internal/identity"
)

func signedToken(t *testing.T, claims identity.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestFromToken(t *testing.T) {
	token := signedToken(t, identity.Claims{
		UserID:   "u-17",
		FullName: "Dana Osei",
		Email:    "dana@example.com",
		Roles:    []string{"REQUESTER", "REQUISITION_OFFICER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-17",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	ident, err := identity.FromToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u-17", ident.ID)
	assert.Equal(t, "Dana Osei", ident.FullName)
	assert.Equal(t, "dana@example.com", ident.Email)
	assert.Equal(t, []string{"REQUESTER", "REQUISITION_OFFICER"}, ident.Roles)
}

func TestFromTokenFallsBackToSubject(t *testing.T) {
	token := signedToken(t, identity.Claims{
		FullName: "Dana Osei",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "u-42",
		},
	})

	ident, err := identity.FromToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u-42", ident.ID)
}

func TestFromTokenDropsBlankRoles(t *testing.T) {
	token := signedToken(t, identity.Claims{
		UserID: "u-1",
		Roles:  []string{"REQUESTER", "", "  ", "SYS_ADMIN"},
	})

	ident, err := identity.FromToken(token)
	require.NoError(t, err)

	assert.Equal(t, []string{"REQUESTER", "SYS_ADMIN"}, ident.Roles)
}

func TestFromTokenMalformed(t *testing.T) {
	_, err := identity.FromToken("not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrMalformedToken)
}

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name  string
		have  []string
		want  []string
		match bool
	}{
		{"direct match", []string{"SYS_ADMIN"}, []string{"SYS_ADMIN"}, true},
		{"one of several", []string{"REQUESTER", "TENDER_OFFICER"}, []string{"SYS_ADMIN", "TENDER_OFFICER"}, true},
		{"no overlap", []string{"REQUESTER"}, []string{"SYS_ADMIN"}, false},
		{"empty identity", nil, []string{"SYS_ADMIN"}, false},
		{"empty requirement", []string{"SYS_ADMIN"}, nil, false},
		{"case sensitive", []string{"sys_admin"}, []string{"SYS_ADMIN"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident := identity.Identity{Roles: tt.have}
			assert.Equal(t, tt.match, ident.HasAnyRole(tt.want...))
		})
	}
}
