package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tenderdesk/tenderdesk/internal/identity"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
	"github.com/tenderdesk/tenderdesk/internal/web/session"
)

// Allowed reports whether an identity passes a role requirement: its role
// set must intersect the required set. An empty requirement never passes.
func Allowed(ident identity.Identity, required ...string) bool {
	return ident.HasAnyRole(required...)
}

// RequireRoles creates Fiber middleware that lets the request through only
// if the signed-in identity holds at least one of the required roles.
// Anything else, including a missing or unreadable session, renders the
// access denied panel with the given page title.
func RequireRoles(title string, required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := CurrentIdentity(c)
		if !ok {
			log.Warn().Str("path", c.Path()).Msg("no identity for gated page")

			return RenderAccessDenied(c, title)
		}

		if !Allowed(ident, required...) {
			log.Warn().
				Str("user_id", ident.ID).
				Strs("roles", ident.Roles).
				Strs("required", required).
				Str("path", c.Path()).
				Msg("identity lacks required role")

			return RenderAccessDenied(c, title)
		}

		return c.Next()
	}
}

// RenderAccessDenied renders the fixed access denied panel inside the base
// layout with a 403 status.
func RenderAccessDenied(c *fiber.Ctx, title string) error {
	nav := navigation.NewContext(title, "", "").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb(title, "#", true)

	return c.Status(fiber.StatusForbidden).Render("access_denied", fiber.Map{
		"Navigation": nav,
		"Title":      title,
	}, handler.BaseLayout)
}

// CurrentIdentity returns the identity of the signed-in user. It prefers
// the value the auth middleware placed in locals and falls back to reading
// the session directly.
func CurrentIdentity(c *fiber.Ctx) (identity.Identity, bool) {
	if ident, ok := c.Locals("CurrentUser").(identity.Identity); ok && ident.ID != "" {
		return ident, true
	}

	sessData, ok := readSession(c)
	if !ok {
		return identity.Identity{}, false
	}

	return sessData.User, true
}

// Token returns the access token of the signed-in user for backend calls.
func Token(c *fiber.Ctx) string {
	if token, ok := c.Locals("Token").(string); ok && token != "" {
		return token
	}

	sessData, ok := readSession(c)
	if !ok {
		return ""
	}

	return sessData.Token
}

func readSession(c *fiber.Ctx) (*session.Data, bool) {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return nil, false
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		return nil, false
	}

	if sessData.User.ID == "" {
		return nil, false
	}

	return sessData, true
}
