// Package login provides HTTP handlers for signing in against the
// procurement API.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/identity"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the login page template.
	TemplateName = "login"
)

// Service is the login handler service.
type Service struct {
	cfg *config.Config
	api *backend.Client
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client) error {
	if app == nil || cfg == nil || api == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.api = api

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

// Post handles the login form submission. Credentials go straight to the
// procurement API; the portal only keeps the issued token and the identity
// decoded from it.
func (s *Service) Post(c *fiber.Ctx) error {
	var in struct {
		Email    string `form:"email"`
		Password string `form:"password"`
	}

	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	if in.Email == "" || in.Password == "" {
		return s.renderError(c, "Email and password are required")
	}

	result, err := s.api.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return s.renderError(c, apiErr.Message)
		}

		log.Error().Err(err).Msg("login request failed")

		return s.renderError(c, "Login service unavailable")
	}

	ident, err := identity.FromToken(result.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode access token")

		return s.renderError(c, "Internal server error")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return s.renderError(c, "Internal server error")
	}

	userSession := &session.Data{
		Token: result.AccessToken,
		User:  ident,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.renderError(c, "Internal server error")
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect("/dashboard")
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"error": msg,
	})
}
