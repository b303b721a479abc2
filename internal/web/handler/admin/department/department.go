// Package department provides handlers for managing department reference
// data in the admin area.
package department

import (
	stderrors "errors"
	"strconv"

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
	// Path is the base path for department management.
	Path = handler.RootPath + "admin/department"

	// TemplateList is the template for listing departments.
	TemplateList = "admin/department/list"

	pageTitle = "Departments"
)

// Service provides CRUD operations for departments.
type Service struct {
	cfg       *config.Config
	api       *backend.Client
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type formInput struct {
	Name string `form:"name" validate:"required,min=2,max=200"`
	Code string `form:"code" validate:"max=20"`
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
	return navigation.NewContext(pageTitle, "admin", "department").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Departments", Path, true)
}

// List shows all departments.
func (s *Service) List(c *fiber.Ctx) error {
	departments, err := s.api.Departments(c.Context(), auth.Token(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load departments")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav(),
			"Error":      "Failed to load departments",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation":  nav(),
		"Departments": departments,
	}, handler.BaseLayout)
}

// Create creates a department.
func (s *Service) Create(c *fiber.Ctx) error {
	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Please correct the highlighted errors")
	}

	if _, err := s.api.CreateDepartment(c.Context(), auth.Token(c), backend.DepartmentInput{
		Name: in.Name,
		Code: in.Code,
	}); err != nil {
		log.Error().Err(err).Str("name", in.Name).Msg("failed to create department")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to create department: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Update updates a department.
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

	if _, err := s.api.UpdateDepartment(c.Context(), auth.Token(c), id, backend.DepartmentInput{
		Name: in.Name,
		Code: in.Code,
	}); err != nil {
		log.Error().Err(err).Int64("department_id", id).Msg("failed to update department")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to update department: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Delete removes a department.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	if err := s.api.DeleteDepartment(c.Context(), auth.Token(c), id); err != nil {
		log.Error().Err(err).Int64("department_id", id).Msg("failed to delete department")

		return s.renderError(c, fiber.StatusBadRequest, "Failed to delete department: "+apiMessage(err))
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
