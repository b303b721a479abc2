// Package apiserver provides the admin screen for the procurement API
// server connection settings.
package apiserver

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/auth"
	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	controller "github.com/tenderdesk/tenderdesk/internal/db/controller/apiserver"
	"github.com/tenderdesk/tenderdesk/internal/db/controller/setting"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/dashboard"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
)

const (
	// Path is the path to the api-server settings page.
	Path = handler.RootPath + "admin/settings/api-server"

	// TemplateName is the name of the api-server settings template.
	TemplateName = "admin/settings/api-server"

	pageTitle = "API Server Settings"
)

// Service is the api-server settings handler service.
type Service struct {
	cfg       *config.Config
	api       *backend.Client
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the api-server settings handler.
var Handler = Service{}

// Init initializes the api-server settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.api = api
	s.db = db
	s.validator = validator.New()

	// register routes with role checks
	app.Get(Path,
		auth.RequireRoles(pageTitle, auth.RoleSysAdmin),
		s.Get,
	)
	app.Post(Path,
		auth.RequireRoles(pageTitle, auth.RoleSysAdmin),
		s.Post,
	)

	return nil
}

func (s *Service) nav() *navigation.Context {
	return navigation.NewContext(pageTitle, "admin", "api-server").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Settings", "#", false).
		AddBreadcrumb("API Server", Path, true)
}

// Get handles the api-server settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := s.nav()

	// Load API server settings
	settings := &controller.Settings{}
	if err := settings.Load(s.db); err != nil {
		// If settings don't exist yet, render form with empty values
		if errors.Is(err, setting.ErrSettingNotFound) {
			log.Debug().Msg("API server settings not found, rendering empty form")

			return c.Render(TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav,
			}, handler.BaseLayout)
		}

		log.Error().Err(err).Msg("failed to load API server settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	return c.Render(
		TemplateName,
		fiber.Map{
			"Settings":   settings,
			"Navigation": nav,
		}, handler.BaseLayout)
}

// Post handles the api-server settings form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	nav := s.nav()

	// Parse form data into settings struct
	settings := &controller.Settings{}
	if err := c.BodyParser(settings); err != nil {
		log.Error().Err(err).Msg("failed to parse API server settings form")

		return c.Status(fiber.StatusBadRequest).Render(
			TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav,
				"Error":      "Invalid form data",
			}, handler.BaseLayout)
	}

	// Validate settings
	if err := s.validator.Struct(settings); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		errorMessages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			errorMessages[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		log.Error().Err(err).Msg("validation failed for API server settings")

		return c.Status(fiber.StatusBadRequest).Render(
			TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav,
				"Error":      errorMessages,
			}, handler.BaseLayout)
	}

	// Save settings to database
	if err := settings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save API server settings")

		return c.Status(fiber.StatusInternalServerError).Render(
			TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav,
				"Error":      "Failed to save settings",
			}, handler.BaseLayout)
	}

	log.Info().
		Str("api_server_url", settings.APIServerURL).
		Int("timeout", settings.Timeout).
		Msg("API server settings saved successfully")

	// Re-initialize the API client with new settings asynchronously to avoid blocking the request
	go func(db *gorm.DB) {
		if err := backend.Open(db); err != nil {
			log.Error().Err(err).Msg("failed to initialize API client after settings update")
			return
		}

		// Test the API connection with new settings (non-blocking, log-only)
		if err := backend.Engine.Test(); err != nil {
			log.Error().Err(err).Msg("failed to connect to procurement API with new settings")
		}
	}(s.db)

	return c.Render(
		TemplateName, fiber.Map{
			"Settings":   settings,
			"Navigation": nav,
			"Success":    "Settings saved successfully",
		}, handler.BaseLayout)
}
