// Package prepmanager provides the tender preparation manager screen: a
// single-select assignment where choosing a new manager replaces the
// current one and clearing sends an explicit unassign.
package prepmanager

import (
	stderrors "errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tenderdesk/tenderdesk/internal/auth"
	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/selection"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/dashboard"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
)

const (
	// Path is the base path for preparation manager assignment.
	Path = handler.RootPath + "tender/prep-manager"

	// TemplateEdit is the template for the assignment editor.
	TemplateEdit = "tender/prepmanager"

	pageTitle = "Preparation Manager"
)

// Service provides the preparation manager assignment operations.
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

	gate := auth.RequireRoles(pageTitle, auth.RoleTenderPrepManager, auth.RoleSysAdmin)

	app.Get(Path+"/:id", gate, s.Edit)
	app.Post(Path+"/:id", gate, s.Save)

	return nil
}

func nav(reference string) *navigation.Context {
	return navigation.NewContext(pageTitle, "tender", "prep-manager").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Tenders", "#", false).
		AddBreadcrumb("Preparation Manager", "#", false).
		AddBreadcrumb(reference, "#", true)
}

// Edit shows the assignment editor for one tender.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(dashboard.Path)
	}

	return s.renderEdit(c, id, "")
}

// Save replaces or clears the stored manager. Selecting while one is set
// is a replace, not an addition; an empty selection is an explicit
// unassign carried as a null on the wire.
func (s *Service) Save(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(dashboard.Path)
	}

	var single selection.Single

	if managerID, err := strconv.ParseInt(c.FormValue("manager"), 10, 64); err == nil && managerID > 0 {
		single.Select(managerID)
	}

	var update backend.PrepManagerUpdate

	if managerID, ok := single.ID(); ok {
		update.ManagerID = &managerID
	}

	if err := s.api.SetTenderPrepManager(c.Context(), auth.Token(c), id, update); err != nil {
		log.Error().Err(err).Int64("tender_id", id).Msg("failed to save preparation manager")

		return s.renderEdit(c, id, "Failed to save assignment: "+apiMessage(err))
	}

	log.Info().Int64("tender_id", id).Msg("preparation manager saved")

	return c.Redirect(Path + "/" + strconv.FormatInt(id, 10))
}

// renderEdit loads the stored assignment plus the candidate list. A
// failing candidate lookup degrades to an empty list with a notice.
func (s *Service) renderEdit(c *fiber.Ctx, id int64, errMsg string) error {
	token := auth.Token(c)

	current, err := s.api.TenderPrepManager(c.Context(), token, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(dashboard.Path)
		}

		log.Error().Err(err).Int64("tender_id", id).Msg("failed to load preparation manager")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateEdit, fiber.Map{
			"Navigation": nav(strconv.FormatInt(id, 10)),
			"Error":      "Failed to load assignment",
		}, handler.BaseLayout)
	}

	var candidates []backend.User

	candidatesUnavailable := false

	candidates, lookupErr := s.api.LookupUsersByRole(c.Context(), token, auth.RoleTenderPrepManager)
	if lookupErr != nil {
		log.Warn().Err(lookupErr).Msg("candidate lookup failed, rendering empty list")

		candidates = nil
		candidatesUnavailable = true
	} else {
		candidates = dropAdmins(candidates)
	}

	status := fiber.StatusOK
	if errMsg != "" {
		status = fiber.StatusBadRequest
	}

	return c.Status(status).Render(TemplateEdit, fiber.Map{
		"Navigation":            nav(strconv.FormatInt(id, 10)),
		"TenderID":              id,
		"Current":               current,
		"Candidates":            candidates,
		"CandidatesUnavailable": candidatesUnavailable,
		"Error":                 errMsg,
	}, handler.BaseLayout)
}

// dropAdmins hides accounts holding the system administrator role from the
// candidate list.
func dropAdmins(users []backend.User) []backend.User {
	out := make([]backend.User, 0, len(users))

	for i := range users {
		if auth.HoldsRole(users[i].RoleNames, auth.RoleSysAdmin) {
			continue
		}

		out = append(out, users[i])
	}

	return out
}

func apiMessage(err error) string {
	var apiErr *backend.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
