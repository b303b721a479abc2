// Package publication provides the publication team screen: one or more
// preparers plus exactly one publication manager per tender. Both rules
// are enforced locally before the save request.
package publication

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
	// Path is the base path for publication team assignment.
	Path = handler.RootPath + "tender/publication"

	// TemplateEdit is the template for the publication team editor.
	TemplateEdit = "tender/publication"

	pageTitle = "Publication Team"
)

// Service provides the publication team operations.
type Service struct {
	cfg *config.Config
	api *backend.Client
}

// Handler is the exported instance.
var Handler = Service{}

type formInput struct {
	Preparers []int64 `form:"preparers"`
	Manager   int64   `form:"manager"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client) error {
	if app == nil || cfg == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.api = api

	gate := auth.RequireRoles(pageTitle, auth.RolePublicationManager, auth.RoleSysAdmin)

	app.Get(Path+"/:id", gate, s.Edit)
	app.Post(Path+"/:id", gate, s.Save)

	return nil
}

func nav(reference string) *navigation.Context {
	return navigation.NewContext(pageTitle, "tender", "publication").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Tenders", "#", false).
		AddBreadcrumb("Publication Team", "#", false).
		AddBreadcrumb(reference, "#", true)
}

// Edit shows the publication team editor for one tender.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(dashboard.Path)
	}

	return s.renderEdit(c, id, "")
}

// Save validates the team locally and replaces the stored one. An
// incomplete team never reaches the API.
func (s *Service) Save(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(dashboard.Path)
	}

	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderEdit(c, id, "Invalid form data")
	}

	preparers := selection.NewPreparerPicker()
	preparers.SetSelected(in.Preparers)

	if err := preparers.Validate(); err != nil {
		if stderrors.Is(err, selection.ErrTooFewSelected) {
			return s.renderEdit(c, id, "At least one preparer must be selected.")
		}

		return s.renderEdit(c, id, err.Error())
	}

	var manager selection.Single

	if in.Manager > 0 {
		manager.Select(in.Manager)
	}

	managerID, ok := manager.ID()
	if !ok {
		return s.renderEdit(c, id, "A publication manager must be selected.")
	}

	update := backend.PublicationTeamUpdate{
		PreparerIDs: preparers.Selected(),
		ManagerID:   managerID,
	}

	if err := s.api.SetPublicationTeam(c.Context(), auth.Token(c), id, update); err != nil {
		log.Error().Err(err).Int64("tender_id", id).Msg("failed to save publication team")

		return s.renderEdit(c, id, "Failed to save team: "+apiMessage(err))
	}

	log.Info().
		Int64("tender_id", id).
		Ints64("preparers", update.PreparerIDs).
		Int64("manager", update.ManagerID).
		Msg("publication team saved")

	return c.Redirect(Path + "/" + strconv.FormatInt(id, 10))
}

// renderEdit loads the stored team plus the candidate lists. A failing
// candidate lookup degrades to an empty list with a notice.
func (s *Service) renderEdit(c *fiber.Ctx, id int64, errMsg string) error {
	token := auth.Token(c)

	current, err := s.api.PublicationTeam(c.Context(), token, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(dashboard.Path)
		}

		log.Error().Err(err).Int64("tender_id", id).Msg("failed to load publication team")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateEdit, fiber.Map{
			"Navigation": nav(strconv.FormatInt(id, 10)),
			"Error":      "Failed to load team",
		}, handler.BaseLayout)
	}

	preparerCandidates, preparersUnavailable := s.lookupCandidates(c, token, auth.RolePublicationPreparer)
	managerCandidates, managersUnavailable := s.lookupCandidates(c, token, auth.RolePublicationManager)

	status := fiber.StatusOK
	if errMsg != "" {
		status = fiber.StatusBadRequest
	}

	return c.Status(status).Render(TemplateEdit, fiber.Map{
		"Navigation":            nav(strconv.FormatInt(id, 10)),
		"TenderID":              id,
		"Current":               current,
		"PreparerCandidates":    preparerCandidates,
		"ManagerCandidates":     managerCandidates,
		"CandidatesUnavailable": preparersUnavailable || managersUnavailable,
		"Error":                 errMsg,
	}, handler.BaseLayout)
}

func (s *Service) lookupCandidates(c *fiber.Ctx, token, role string) ([]backend.User, bool) {
	users, err := s.api.LookupUsersByRole(c.Context(), token, role)
	if err != nil {
		log.Warn().Err(err).Str("role", role).Msg("candidate lookup failed, rendering empty list")

		return nil, true
	}

	out := make([]backend.User, 0, len(users))

	for i := range users {
		if auth.HoldsRole(users[i].RoleNames, auth.RoleSysAdmin) {
			continue
		}

		out = append(out, users[i])
	}

	return out, false
}

func apiMessage(err error) string {
	var apiErr *backend.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
