// Package role provides handlers for managing roles in the admin area.
// System roles and roles already assigned to accounts can not be renamed;
// that rule is enforced here before any API call is made.
package role

import (
	stderrors "errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tenderdesk/tenderdesk/internal/auth"
	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/capability"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/dashboard"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "admin/role"

	// TemplateList is the template for listing roles.
	TemplateList = "admin/role/list"

	pageTitle = "Roles"
)

// Service provides CRUD operations for roles.
type Service struct {
	cfg       *config.Config
	api       *backend.Client
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type formInput struct {
	Name        string `form:"name"        validate:"required,min=2,max=100"`
	Description string `form:"description" validate:"max=255"`
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
	return navigation.NewContext(pageTitle, "admin", "role").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Roles", Path, true)
}

// List shows all roles.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.api.Roles(c.Context(), auth.Token(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav(),
			"Error":      "Failed to load roles",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": nav(),
		"Roles":      roles,
	}, handler.BaseLayout)
}

// Create creates a new role.
func (s *Service) Create(c *fiber.Ctx) error {
	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Please correct the highlighted errors")
	}

	if _, err := s.api.CreateRole(c.Context(), auth.Token(c), backend.RoleInput{
		Name:        in.Name,
		Description: in.Description,
	}); err != nil {
		log.Error().Err(err).Str("name", in.Name).Msg("failed to create role")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to create role: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Update renames or redescribes a role. The rename guard runs locally: a
// system role or a role that is already in use keeps its name, no request
// leaves for a rejected rename.
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

	roles, err := s.api.Roles(c.Context(), auth.Token(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return s.renderError(c, fiber.StatusInternalServerError, "Failed to load roles")
	}

	current, ok := findRole(roles, id)
	if !ok {
		return c.Redirect(Path)
	}

	caps := capability.ForRole(current)

	if in.Name != current.Name && caps.Locked(capability.FieldName) {
		log.Warn().
			Int64("role_id", id).
			Str("name", current.Name).
			Bool("is_system", current.IsSystem).
			Int("usage_count", current.UsageCount).
			Msg("role rename rejected")

		return s.renderError(c, fiber.StatusBadRequest,
			"Role '"+current.Name+"' cannot be renamed: "+caps.Reason(capability.FieldName)+".")
	}

	if _, err := s.api.UpdateRole(c.Context(), auth.Token(c), id, backend.RoleInput{
		Name:        in.Name,
		Description: in.Description,
	}); err != nil {
		log.Error().Err(err).Int64("role_id", id).Msg("failed to update role")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to update role: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Delete removes a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	roles, err := s.api.Roles(c.Context(), auth.Token(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		return s.renderError(c, fiber.StatusInternalServerError, "Failed to load roles")
	}

	current, ok := findRole(roles, id)
	if !ok {
		return c.Redirect(Path)
	}

	if current.IsSystem {
		return s.renderError(c, fiber.StatusForbidden, "System roles cannot be deleted.")
	}

	if current.UsageCount > 0 {
		return s.renderError(c, fiber.StatusBadRequest,
			"Role '"+current.Name+"' is assigned to "+strconv.Itoa(current.UsageCount)+" account(s) and cannot be deleted.")
	}

	if err := s.api.DeleteRole(c.Context(), auth.Token(c), id); err != nil {
		log.Error().Err(err).Int64("role_id", id).Msg("failed to delete role")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to delete role: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

func findRole(roles []backend.Role, id int64) (backend.Role, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}

	return backend.Role{}, false
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
