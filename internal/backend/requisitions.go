package backend

import (
	"context"
	"fmt"
)

// Requisitions lists requisition work items, optionally filtered by a
// search term. The returned records carry their assignment relations, the
// officer screen partitions on them.
func (c *Client) Requisitions(ctx context.Context, token, search string) ([]Requisition, error) {
	path := "/requisitions"
	if search != "" {
		path += "?search=" + queryEscape(search)
	}

	var out []Requisition
	if err := c.Get(ctx, token, path, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// RequisitionOfficers fetches the current officer assignment of a
// requisition.
func (c *Client) RequisitionOfficers(ctx context.Context, token string, id int64) (OfficerAssignmentUpdate, error) {
	var out OfficerAssignmentUpdate
	if err := c.Get(ctx, token, fmt.Sprintf("/requisitions/%d/officers", id), &out); err != nil {
		return OfficerAssignmentUpdate{}, err
	}

	return out, nil
}

// SetRequisitionOfficers replaces the officer assignment of a requisition
// with the given desired state.
func (c *Client) SetRequisitionOfficers(ctx context.Context, token string, id int64, in OfficerAssignmentUpdate) error {
	return c.Put(ctx, token, fmt.Sprintf("/requisitions/%d/officers", id), in, nil)
}
