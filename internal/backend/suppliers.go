package backend

import (
	"context"
	"fmt"
)

// Suppliers lists supplier registrations, optionally filtered by status
// (pending, approved, rejected).
func (c *Client) Suppliers(ctx context.Context, token, status string) ([]Supplier, error) {
	path := "/suppliers"
	if status != "" {
		path += "?status=" + queryEscape(status)
	}

	var out []Supplier
	if err := c.Get(ctx, token, path, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// ApproveSupplier approves a pending supplier registration.
func (c *Client) ApproveSupplier(ctx context.Context, token string, id int64) error {
	return c.Put(ctx, token, fmt.Sprintf("/suppliers/%d/approve", id), nil, nil)
}

// RejectSupplier rejects a pending supplier registration with a reason the
// supplier will see.
func (c *Client) RejectSupplier(ctx context.Context, token string, id int64, reason string) error {
	in := map[string]string{"reason": reason}

	return c.Put(ctx, token, fmt.Sprintf("/suppliers/%d/reject", id), in, nil)
}
