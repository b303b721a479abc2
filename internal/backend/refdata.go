package backend

import (
	"context"
	"fmt"
)

// DepartmentInput is the payload for creating or updating a department.
type DepartmentInput struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// CurrencyInput is the payload for creating or updating a currency.
type CurrencyInput struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Departments lists all departments.
func (c *Client) Departments(ctx context.Context, token string) ([]Department, error) {
	var out []Department
	if err := c.Get(ctx, token, "/departments", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateDepartment creates a department.
func (c *Client) CreateDepartment(ctx context.Context, token string, in DepartmentInput) (Department, error) {
	var out Department
	if err := c.Post(ctx, token, "/departments", in, &out); err != nil {
		return Department{}, err
	}

	return out, nil
}

// UpdateDepartment updates a department.
func (c *Client) UpdateDepartment(ctx context.Context, token string, id int64, in DepartmentInput) (Department, error) {
	var out Department
	if err := c.Put(ctx, token, fmt.Sprintf("/departments/%d", id), in, &out); err != nil {
		return Department{}, err
	}

	return out, nil
}

// DeleteDepartment removes a department.
func (c *Client) DeleteDepartment(ctx context.Context, token string, id int64) error {
	return c.Delete(ctx, token, fmt.Sprintf("/departments/%d", id))
}

// Currencies lists all currencies.
func (c *Client) Currencies(ctx context.Context, token string) ([]Currency, error) {
	var out []Currency
	if err := c.Get(ctx, token, "/currencies", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateCurrency creates a currency.
func (c *Client) CreateCurrency(ctx context.Context, token string, in CurrencyInput) (Currency, error) {
	var out Currency
	if err := c.Post(ctx, token, "/currencies", in, &out); err != nil {
		return Currency{}, err
	}

	return out, nil
}

// UpdateCurrency updates a currency.
func (c *Client) UpdateCurrency(ctx context.Context, token string, id int64, in CurrencyInput) (Currency, error) {
	var out Currency
	if err := c.Put(ctx, token, fmt.Sprintf("/currencies/%d", id), in, &out); err != nil {
		return Currency{}, err
	}

	return out, nil
}

// DeleteCurrency removes a currency.
func (c *Client) DeleteCurrency(ctx context.Context, token string, id int64) error {
	return c.Delete(ctx, token, fmt.Sprintf("/currencies/%d", id))
}
