package backend

import (
	"context"
	"fmt"
)

// Tenders lists tender work items, optionally filtered by a search term.
func (c *Client) Tenders(ctx context.Context, token, search string) ([]Tender, error) {
	path := "/tenders"
	if search != "" {
		path += "?search=" + queryEscape(search)
	}

	var out []Tender
	if err := c.Get(ctx, token, path, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// TenderOfficers fetches the current officer assignment of a tender.
func (c *Client) TenderOfficers(ctx context.Context, token string, id int64) (OfficerAssignmentUpdate, error) {
	var out OfficerAssignmentUpdate
	if err := c.Get(ctx, token, fmt.Sprintf("/tenders/%d/officers", id), &out); err != nil {
		return OfficerAssignmentUpdate{}, err
	}

	return out, nil
}

// SetTenderOfficers replaces the officer assignment of a tender.
func (c *Client) SetTenderOfficers(ctx context.Context, token string, id int64, in OfficerAssignmentUpdate) error {
	return c.Put(ctx, token, fmt.Sprintf("/tenders/%d/officers", id), in, nil)
}

// TenderPrepManager fetches the preparation manager of a tender.
func (c *Client) TenderPrepManager(ctx context.Context, token string, id int64) (PrepManagerUpdate, error) {
	var out PrepManagerUpdate
	if err := c.Get(ctx, token, fmt.Sprintf("/tenders/%d/prep-manager", id), &out); err != nil {
		return PrepManagerUpdate{}, err
	}

	return out, nil
}

// SetTenderPrepManager sets or clears the preparation manager of a tender.
func (c *Client) SetTenderPrepManager(ctx context.Context, token string, id int64, in PrepManagerUpdate) error {
	return c.Put(ctx, token, fmt.Sprintf("/tenders/%d/prep-manager", id), in, nil)
}

// OpeningCommittee fetches the opening committee of a tender.
func (c *Client) OpeningCommittee(ctx context.Context, token string, id int64) (CommitteeUpdate, error) {
	var out CommitteeUpdate
	if err := c.Get(ctx, token, fmt.Sprintf("/tenders/%d/opening-committee", id), &out); err != nil {
		return CommitteeUpdate{}, err
	}

	return out, nil
}

// SetOpeningCommittee replaces the opening committee of a tender.
func (c *Client) SetOpeningCommittee(ctx context.Context, token string, id int64, in CommitteeUpdate) error {
	return c.Put(ctx, token, fmt.Sprintf("/tenders/%d/opening-committee", id), in, nil)
}

// PublicationTeam fetches the publication team of a tender.
func (c *Client) PublicationTeam(ctx context.Context, token string, id int64) (PublicationTeamUpdate, error) {
	var out PublicationTeamUpdate
	if err := c.Get(ctx, token, fmt.Sprintf("/tenders/%d/publication-team", id), &out); err != nil {
		return PublicationTeamUpdate{}, err
	}

	return out, nil
}

// SetPublicationTeam replaces the publication team of a tender.
func (c *Client) SetPublicationTeam(ctx context.Context, token string, id int64, in PublicationTeamUpdate) error {
	return c.Put(ctx, token, fmt.Sprintf("/tenders/%d/publication-team", id), in, nil)
}
