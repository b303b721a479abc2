// Package supplier provides the supplier registration review screen:
// pending registrations are listed and approved or rejected from here.
package supplier

import (
	stderrors "errors"
	"strconv"
	"strings"

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
	// Path is the base path for supplier review.
	Path = handler.RootPath + "admin/supplier"

	// TemplateList is the template for listing suppliers.
	TemplateList = "admin/supplier/list"

	pageTitle = "Suppliers"

	// StatusPending is the default status filter.
	StatusPending = "pending"
)

// Service provides the supplier review operations.
type Service struct {
	cfg *config.Config
	api *backend.Client
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client) error {
	if app == nil || cfg == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.api = api

	gate := auth.RequireRoles(pageTitle, auth.RoleSysAdmin, auth.RoleUserAdmin)

	app.Get(Path, gate, s.List)
	app.Post(Path+"/:id/approve", gate, s.Approve)
	app.Post(Path+"/:id/reject", gate, s.Reject)

	return nil
}

func nav() *navigation.Context {
	return navigation.NewContext(pageTitle, "admin", "supplier").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Suppliers", Path, true)
}

// List shows supplier registrations filtered by status.
func (s *Service) List(c *fiber.Ctx) error {
	status := c.Query("status", StatusPending)
	if status != StatusPending && status != "approved" && status != "rejected" && status != "all" {
		status = StatusPending
	}

	filter := status
	if filter == "all" {
		filter = ""
	}

	suppliers, err := s.api.Suppliers(c.Context(), auth.Token(c), filter)
	if err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to load suppliers")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav(),
			"Error":      "Failed to load suppliers",
			"Status":     status,
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": nav(),
		"Suppliers":  suppliers,
		"Status":     status,
	}, handler.BaseLayout)
}

// Approve approves a pending registration and returns to the list, which
// re-fetches so the row reflects the stored state.
func (s *Service) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	if err := s.api.ApproveSupplier(c.Context(), auth.Token(c), id); err != nil {
		log.Error().Err(err).Int64("supplier_id", id).Msg("failed to approve supplier")

		return s.renderError(c, "Failed to approve supplier: "+apiMessage(err))
	}

	log.Info().Int64("supplier_id", id).Msg("supplier approved")

	return c.Redirect(Path)
}

// Reject rejects a pending registration with a reason.
func (s *Service) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	reason := strings.TrimSpace(c.FormValue("reason"))
	if reason == "" {
		return s.renderError(c, "A rejection reason is required.")
	}

	if err := s.api.RejectSupplier(c.Context(), auth.Token(c), id, reason); err != nil {
		log.Error().Err(err).Int64("supplier_id", id).Msg("failed to reject supplier")

		return s.renderError(c, "Failed to reject supplier: "+apiMessage(err))
	}

	log.Info().Int64("supplier_id", id).Msg("supplier rejected")

	return c.Redirect(Path)
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
		"Navigation": nav(),
		"Error":      msg,
		"Status":     StatusPending,
	}, handler.BaseLayout)
}

func apiMessage(err error) string {
	var apiErr *backend.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
