// Package currency provides handlers for managing currency reference data
// in the admin area.
package currency

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tenderdesk/tenderdesk/internal/auth"
	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/dashboard"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
)

const (
	// Path is the base path for currency management.
	Path = handler.RootPath + "admin/currency"

	// TemplateList is the template for listing currencies.
	TemplateList = "admin/currency/list"

	pageTitle = "Currencies"
)

// Service provides CRUD operations for currencies.
type Service struct {
	cfg       *config.Config
	api       *backend.Client
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type formInput struct {
	Code   string `form:"code"   validate:"required,len=3,alpha"`
	Name   string `form:"name"   validate:"required,min=2,max=100"`
	Symbol string `form:"symbol" validate:"max=8"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client) error {
	if app == nil || cfg == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.api = api
	s.validator = validator.New()

	gate := auth.RequireRoles(pageTitle, auth.RoleSysAdmin)

	app.Get(Path, gate, s.List)
	app.Post(Path, gate, s.Create)
	app.Post(Path+"/:id", gate, s.Update)
	app.Post(Path+"/:id/delete", gate, s.Delete)

	return nil
}

func nav() *navigation.Context {
	return navigation.NewContext(pageTitle, "admin", "currency").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Currencies", Path, true)
}

// List shows all currencies.
func (s *Service) List(c *fiber.Ctx) error {
	currencies, err := s.api.Currencies(c.Context(), auth.Token(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load currencies")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav(),
			"Error":      "Failed to load currencies",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": nav(),
		"Currencies": currencies,
	}, handler.BaseLayout)
}

// Create creates a currency. The ISO code is stored upper-case.
func (s *Service) Create(c *fiber.Ctx) error {
	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Please correct the highlighted errors")
	}

	if _, err := s.api.CreateCurrency(c.Context(), auth.Token(c), backend.CurrencyInput{
		Code:   strings.ToUpper(in.Code),
		Name:   in.Name,
		Symbol: in.Symbol,
	}); err != nil {
		log.Error().Err(err).Str("code", in.Code).Msg("failed to create currency")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to create currency: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Update updates a currency.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Please correct the highlighted errors")
	}

	if _, err := s.api.UpdateCurrency(c.Context(), auth.Token(c), id, backend.CurrencyInput{
		Code:   strings.ToUpper(in.Code),
		Name:   in.Name,
		Symbol: in.Symbol,
	}); err != nil {
		log.Error().Err(err).Int64("currency_id", id).Msg("failed to update currency")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to update currency: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Delete removes a currency.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	if err := s.api.DeleteCurrency(c.Context(), auth.Token(c), id); err != nil {
		log.Error().Err(err).Int64("currency_id", id).Msg("failed to delete currency")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to delete currency: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

func (s *Service) renderError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render(TemplateList, fiber.Map{
		"Navigation": nav(),
		"Error":      msg,
	}, handler.BaseLayout)
}

func apiMessage(err error) string {
	var apiErr *backend.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
