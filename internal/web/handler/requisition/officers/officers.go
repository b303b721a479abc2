// Package officers provides the requisition officer assignment screens:
// a work list split into unassigned and assigned requisitions, and a
// per-requisition editor that picks exactly two officers (the first one
// saved becomes the lead) plus an optional requisition manager.
package officers

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
	// Path is the base path for requisition officer assignment.
	Path = handler.RootPath + "requisition/officers"

	// TemplateList is the template for the requisition work list.
	TemplateList = "requisition/list"
	// TemplateEdit is the template for the assignment editor.
	TemplateEdit = "requisition/officers"

	pageTitle = "Requisition Officers"
)

// Service provides the requisition officer assignment operations.
type Service struct {
	cfg *config.Config
	api *backend.Client
}

// Handler is the exported instance.
var Handler = Service{}

// formInput is the editor form payload. Officers arrives as the ordered
// multi-value checkbox field, Manager as the optional radio selection.
type formInput struct {
	Officers []int64 `form:"officers"`
	Manager  int64   `form:"manager"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client) error {
	if app == nil || cfg == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.api = api

	gate := auth.RequireRoles(pageTitle, auth.RoleRequisitionManager, auth.RoleSysAdmin)

	app.Get(Path, gate, s.List)
	app.Get(Path+"/:id", gate, s.Edit)
	app.Post(Path+"/:id", gate, s.Save)

	return nil
}

func listNav() *navigation.Context {
	return navigation.NewContext(pageTitle, "requisition", "officers").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Requisitions", "#", false).
		AddBreadcrumb("Officers", Path, true)
}

func editNav(reference string) *navigation.Context {
	return navigation.NewContext(pageTitle, "requisition", "officers").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Requisitions", "#", false).
		AddBreadcrumb("Officers", Path, false).
		AddBreadcrumb(reference, "#", true)
}

// List shows the requisition work list partitioned into unassigned and
// assigned items.
func (s *Service) List(c *fiber.Ctx) error {
	search := c.Query("search", "")

	requisitions, err := s.api.Requisitions(c.Context(), auth.Token(c), search)
	if err != nil {
		log.Error().Err(err).Str("search", search).Msg("failed to load requisitions")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load requisitions",
			"Search":     search,
		}, handler.BaseLayout)
	}

	var assigned, unassigned []backend.Requisition

	for i := range requisitions {
		if len(requisitions[i].OfficerAssignments) == 0 {
			unassigned = append(unassigned, requisitions[i])
		} else {
			assigned = append(assigned, requisitions[i])
		}
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Unassigned": unassigned,
		"Assigned":   assigned,
		"Search":     search,
	}, handler.BaseLayout)
}

// Edit shows the assignment editor for one requisition.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	return s.renderEdit(c, id, "")
}

// Save validates the picked set locally and, only if it is complete,
// replaces the stored assignment with the submitted one. An incomplete
// pick never reaches the API.
func (s *Service) Save(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderEdit(c, id, "Invalid form data")
	}

	picker := selection.NewOfficerPicker()
	picker.SetSelected(in.Officers)

	if err := picker.Validate(); err != nil {
		if stderrors.Is(err, selection.ErrOfficerCount) {
			return s.renderEdit(c, id, "Exactly two officers must be selected.")
		}

		return s.renderEdit(c, id, err.Error())
	}

	update := backend.OfficerAssignmentUpdate{
		Officers: make([]backend.OfficerAssignment, 0, picker.Count()),
	}

	// selection order is kept: the first officer saved is the lead
	for i, userID := range picker.Selected() {
		update.Officers = append(update.Officers, backend.OfficerAssignment{
			UserID: userID,
			IsLead: i == 0,
		})
	}

	if in.Manager > 0 {
		manager := in.Manager
		update.ManagerID = &manager
	}

	if err := s.api.SetRequisitionOfficers(c.Context(), auth.Token(c), id, update); err != nil {
		log.Error().Err(err).Int64("requisition_id", id).Msg("failed to save officer assignment")

		return s.renderEdit(c, id, "Failed to save assignment: "+apiMessage(err))
	}

	log.Info().
		Int64("requisition_id", id).
		Ints64("officers", picker.Selected()).
		Msg("officer assignment saved")

	// re-fetch through the editor so the page shows the stored state
	return c.Redirect(Path + "/" + strconv.FormatInt(id, 10))
}

// renderEdit loads the stored assignment plus the candidate lists and
// renders the editor. A failing candidate lookup degrades to an empty
// list with a notice instead of failing the page.
func (s *Service) renderEdit(c *fiber.Ctx, id int64, errMsg string) error {
	token := auth.Token(c)

	current, err := s.api.RequisitionOfficers(c.Context(), token, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(Path)
		}

		log.Error().Err(err).Int64("requisition_id", id).Msg("failed to load officer assignment")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateEdit, fiber.Map{
			"Navigation": editNav(strconv.FormatInt(id, 10)),
			"Error":      "Failed to load assignment",
		}, handler.BaseLayout)
	}

	reference := s.findReference(c, token, id)

	officerCandidates, candidatesUnavailable := s.lookupCandidates(c, token, auth.RoleRequisitionOfficer)
	managerCandidates, managersUnavailable := s.lookupCandidates(c, token, auth.RoleRequisitionManager)

	picker := selection.NewOfficerPicker()
	for _, officer := range current.Officers {
		picker.Toggle(officer.UserID)
	}

	status := fiber.StatusOK
	if errMsg != "" {
		status = fiber.StatusBadRequest
	}

	return c.Status(status).Render(TemplateEdit, fiber.Map{
		"Navigation":            editNav(reference),
		"RequisitionID":         id,
		"Reference":             reference,
		"Current":               current,
		"Selected":              picker.Selected(),
		"OfficerCandidates":     officerCandidates,
		"ManagerCandidates":     managerCandidates,
		"CandidatesUnavailable": candidatesUnavailable || managersUnavailable,
		"Error":                 errMsg,
	}, handler.BaseLayout)
}

// lookupCandidates fetches eligible users for a role, hiding accounts that
// also hold the system administrator role. On failure the list is empty
// and the caller shows a notice.
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

// findReference resolves the display reference of a requisition from the
// work list; the id is shown when the list can not be fetched.
func (s *Service) findReference(c *fiber.Ctx, token string, id int64) string {
	requisitions, err := s.api.Requisitions(c.Context(), token, "")
	if err == nil {
		for i := range requisitions {
			if requisitions[i].ID == id {
				return requisitions[i].Reference
			}
		}
	}

	return strconv.FormatInt(id, 10)
}


func apiMessage(err error) string {
	var apiErr *backend.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
