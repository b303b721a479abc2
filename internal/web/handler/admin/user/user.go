// Package user provides handlers for managing portal accounts (CRUD) in the
// admin area.
package user

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
	"github.com/tenderdesk/tenderdesk/internal/rolegroup"
	"github.com/tenderdesk/tenderdesk/internal/selection"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/dashboard"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/user"

	// TemplateList is the template for listing users.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "admin/user/form"

	pageTitle = "Users"
)

// Service provides CRUD operations for portal accounts.
type Service struct {
	cfg       *config.Config
	api       *backend.Client
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// formInput is the account form payload. Roles arrives as the multi-value
// checkbox field.
type formInput struct {
	FullName   string   `form:"fullname"   validate:"required,min=2,max=200"`
	Email      string   `form:"email"      validate:"required,email,max=255"`
	Phone      string   `form:"phone"      validate:"max=50"`
	Department string   `form:"department" validate:"max=100"`
	Password   string   `form:"password"`
	Active     bool     `form:"active"`
	Roles      []string `form:"roles"`
}

// RoleCheck is one role checkbox in the form.
type RoleCheck struct {
	Name    string
	Checked bool
	Locked  bool
}

// RoleGroupView is one collapsible role group in the form.
type RoleGroupView struct {
	Key     string
	Label   string
	Open    bool
	Roles   []RoleCheck
	Checked int
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

	gate := auth.RequireRoles(pageTitle, auth.RoleSysAdmin, auth.RoleUserAdmin)

	app.Get(Path, gate, s.List)
	app.Get(Path+"/new", gate, s.New)
	app.Post(Path, gate, s.Create)
	app.Get(Path+"/:id/edit", gate, s.Edit)
	app.Post(Path+"/:id", gate, s.Update)
	app.Post(Path+"/:id/delete", gate, s.Delete)

	return nil
}

func listNav() *navigation.Context {
	return navigation.NewContext(pageTitle, "admin", "user").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Users", Path, true)
}

// List shows accounts with a server-side search.
func (s *Service) List(c *fiber.Ctx) error {
	nav := listNav()
	search := c.Query("search", "")

	users, err := s.api.AdminUsers(c.Context(), auth.Token(c), search)
	if err != nil {
		log.Error().Err(err).Str("search", search).Msg("failed to load users")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load users",
			"Search":     search,
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": nav,
		"Users":      users,
		"Search":     search,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New User", "admin", "user").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Users", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	picker := selection.NewRolePicker()

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"User":       backend.User{IsActive: true},
		"IsCreate":   true,
		"Caps":       capability.Descriptor{},
		"RoleGroups": buildRoleGroups(picker),
	}, handler.BaseLayout)
}

// Create creates a new account.
func (s *Service) Create(c *fiber.Ctx) error {
	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderListError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderListError(c, fiber.StatusBadRequest, "Please correct the highlighted errors")
	}

	picker := rolesFromForm(in.Roles)

	if _, err := s.api.CreateUser(c.Context(), auth.Token(c), backend.UserInput{
		FullName:   in.FullName,
		Email:      in.Email,
		Phone:      in.Phone,
		Password:   in.Password,
		IsActive:   in.Active,
		Department: in.Department,
		Roles:      picker.Selected(),
	}); err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("failed to create user")

		return s.renderListError(c, fiber.StatusBadRequest, "Failed to create user: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Edit shows the edit form for an account.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	user, err := s.api.AdminUser(c.Context(), auth.Token(c), id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(Path)
		}

		log.Error().Err(err).Int64("user_id", id).Msg("failed to load user")

		return s.renderListError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	picker := selection.NewRolePicker()
	picker.SetSelected(user.RoleNames)

	nav := navigation.NewContext("Edit User", "admin", "user").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Users", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.FormatInt(id, 10)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"User":       user,
		"IsCreate":   false,
		"Caps":       capability.ForUser(user),
		"RoleGroups": buildRoleGroups(picker),
	}, handler.BaseLayout)
}

// Update updates an account. Fields the capability descriptor locks keep
// their stored value, whatever the form submits.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderListError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	current, err := s.api.AdminUser(c.Context(), auth.Token(c), id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(Path)
		}

		log.Error().Err(err).Int64("user_id", id).Msg("failed to load user")

		return s.renderListError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	caps := capability.ForUser(current)

	if caps.Locked(capability.FieldIdentity) {
		in.FullName = current.FullName
		in.Email = current.Email
		in.Phone = current.Phone
	}

	if caps.Locked(capability.FieldDepartment) {
		in.Department = current.Department
	}

	if caps.Locked(capability.FieldPassword) {
		in.Password = ""
	}

	if caps.Locked(capability.FieldActive) {
		in.Active = current.IsActive
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderListError(c, fiber.StatusBadRequest, "Please correct the highlighted errors")
	}

	roles := rolesFromForm(in.Roles).Selected()
	if caps.Locked(capability.FieldRoles) {
		// stored roles verbatim, not run through the picker allow-list
		roles = current.RoleNames
	}

	if _, err := s.api.UpdateUser(c.Context(), auth.Token(c), id, backend.UserInput{
		FullName:   in.FullName,
		Email:      in.Email,
		Phone:      in.Phone,
		Password:   in.Password,
		IsActive:   in.Active,
		Department: in.Department,
		Roles:      roles,
	}); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("failed to update user")

		return s.renderListError(c, fiber.StatusBadRequest, "Failed to update user: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

// Delete removes an account. System accounts can not be deleted.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	user, err := s.api.AdminUser(c.Context(), auth.Token(c), id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(Path)
		}

		log.Error().Err(err).Int64("user_id", id).Msg("failed to load user")

		return s.renderListError(c, fiber.StatusInternalServerError, "Failed to load user.")
	}

	if user.IsSystem {
		return s.renderListError(c, fiber.StatusForbidden, "System accounts cannot be deleted.")
	}

	if ident, ok := auth.CurrentIdentity(c); ok && ident.ID == strconv.FormatInt(id, 10) {
		return s.renderListError(c, fiber.StatusBadRequest, "You cannot delete your own account.")
	}

	if err := s.api.DeleteUser(c.Context(), auth.Token(c), id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")

		return s.renderListError(c, fiber.StatusBadRequest, "Failed to delete user: "+apiMessage(err))
	}

	return c.Redirect(Path)
}

func (s *Service) renderListError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Error":      msg,
	}, handler.BaseLayout)
}

// rolesFromForm sanitizes the submitted role checkbox set: unknown names
// are dropped and the baseline role is always present.
func rolesFromForm(names []string) *selection.RolePicker {
	picker := selection.NewRolePicker()

	allowed := make([]string, 0, len(names))
	for _, name := range names {
		if auth.RoleNameAllowed(name) {
			allowed = append(allowed, name)
		}
	}

	picker.SetSelected(allowed)

	return picker
}

// buildRoleGroups lays the assignable roles out in their display groups
// with the picker's checked state applied.
func buildRoleGroups(picker *selection.RolePicker) []RoleGroupView {
	groups := rolegroup.Classify(auth.AllowedRoleNames)

	views := make([]RoleGroupView, 0, len(groups))

	for _, g := range groups {
		view := RoleGroupView{
			Key:   g.Key,
			Label: g.Label,
			Roles: make([]RoleCheck, 0, len(g.Members)),
		}

		for _, name := range g.Members {
			checked := picker.Has(name)
			if checked {
				view.Checked++
			}

			view.Roles = append(view.Roles, RoleCheck{
				Name:    name,
				Checked: checked,
				Locked:  picker.Locked(name),
			})
		}

		// groups with a selection open alongside the default-open ones
		view.Open = rolegroup.DefaultOpen(g.Key) || view.Checked > 0

		views = append(views, view)
	}

	return views
}

// apiMessage unwraps the API error message for display, falling back to
// the raw error text.
func apiMessage(err error) string {
	var apiErr *backend.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
