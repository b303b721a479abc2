// Package committee provides the opening committee screen: members are
// picked from eligible users and one member is marked as head. The head
// must be one of the members and unselecting the head's membership clears
// the head; both rules are enforced locally before the save request.
package committee

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
	// Path is the base path for opening committee assignment.
	Path = handler.RootPath + "tender/committee"

	// TemplateEdit is the template for the committee editor.
	TemplateEdit = "tender/committee"

	pageTitle = "Opening Committee"
)

// Service provides the opening committee operations.
type Service struct {
	cfg *config.Config
	api *backend.Client
}

// Handler is the exported instance.
var Handler = Service{}

type formInput struct {
	Members []int64 `form:"members"`
	Head    int64   `form:"head"`
}

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
	return navigation.NewContext(pageTitle, "tender", "committee").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Tenders", "#", false).
		AddBreadcrumb("Opening Committee", "#", false).
		AddBreadcrumb(reference, "#", true)
}

// Edit shows the committee editor for one tender.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(dashboard.Path)
	}

	return s.renderEdit(c, id, "")
}

// Save validates the committee locally and replaces the stored one. An
// invalid committee never reaches the API.
func (s *Service) Save(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Redirect(dashboard.Path)
	}

	var in formInput
	if err := c.BodyParser(&in); err != nil {
		return s.renderEdit(c, id, "Invalid form data")
	}

	var committee selection.Committee

	committee.SetMembers(in.Members)

	if in.Head > 0 {
		if err := committee.SetHead(in.Head); err != nil {
			if stderrors.Is(err, selection.ErrHeadNotMember) {
				return s.renderEdit(c, id, "The committee head must be one of the selected members.")
			}

			return s.renderEdit(c, id, err.Error())
		}
	}

	if err := committee.Validate(); err != nil {
		switch {
		case stderrors.Is(err, selection.ErrTooFewSelected):
			return s.renderEdit(c, id, "At least one committee member must be selected.")
		case stderrors.Is(err, selection.ErrNoHead):
			return s.renderEdit(c, id, "A committee head must be selected.")
		default:
			return s.renderEdit(c, id, err.Error())
		}
	}

	head, _ := committee.Head()

	update := backend.CommitteeUpdate{
		MemberIDs: committee.Members(),
		HeadID:    head,
	}

	if err := s.api.SetOpeningCommittee(c.Context(), auth.Token(c), id, update); err != nil {
		log.Error().Err(err).Int64("tender_id", id).Msg("failed to save opening committee")

		return s.renderEdit(c, id, "Failed to save committee: "+apiMessage(err))
	}

	log.Info().
		Int64("tender_id", id).
		Ints64("members", update.MemberIDs).
		Int64("head", update.HeadID).
		Msg("opening committee saved")

	return c.Redirect(Path + "/" + strconv.FormatInt(id, 10))
}

// renderEdit loads the stored committee plus the candidate list. A
// failing candidate lookup degrades to an empty list with a notice.
func (s *Service) renderEdit(c *fiber.Ctx, id int64, errMsg string) error {
	token := auth.Token(c)

	current, err := s.api.OpeningCommittee(c.Context(), token, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return c.Redirect(dashboard.Path)
		}

		log.Error().Err(err).Int64("tender_id", id).Msg("failed to load opening committee")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateEdit, fiber.Map{
			"Navigation": nav(strconv.FormatInt(id, 10)),
			"Error":      "Failed to load committee",
		}, handler.BaseLayout)
	}

	candidates, lookupErr := s.api.LookupUsersByRole(c.Context(), token, auth.RoleOpeningCommitteeMember)

	candidatesUnavailable := false
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
