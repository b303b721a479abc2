// Package capability derives per-field edit capabilities from entity
// state. A form consults one descriptor computed from the loaded entity
// instead of repeating system-account and role-usage conditions at every
// input, and the save handler enforces the same descriptor so a crafted
// request can not change a locked field.
package capability

import "github.com/tenderdesk/tenderdesk/internal/backend"

// State of a single form field.
type State string

const (
	// Editable fields accept form input.
	Editable State = "editable"
	// Locked fields are rendered but keep their stored value.
	Locked State = "locked"
)

// Field pairs the state with the reason shown next to a locked input.
type Field struct {
	State  State
	Reason string
}

// Descriptor maps field names to their capability. A missing field is
// editable.
type Descriptor map[string]Field

// Locked reports whether a field keeps its stored value.
func (d Descriptor) Locked(name string) bool {
	return d[name].State == Locked
}

// Reason returns the lock reason of a field, empty for editable fields.
func (d Descriptor) Reason(name string) string {
	return d[name].Reason
}

// Field names the account and role forms consult.
const (
	FieldIdentity   = "identity"
	FieldDepartment = "department"
	FieldPassword   = "password"
	FieldActive     = "active"
	FieldRoles      = "roles"
	FieldName       = "name"
)

// ForUser computes the capability descriptor of an account. System
// accounts keep identity, department, activation, credentials and roles
// as stored.
func ForUser(u backend.User) Descriptor {
	if !u.IsSystem {
		return Descriptor{}
	}

	const reason = "managed system account"

	return Descriptor{
		FieldIdentity:   {Locked, reason},
		FieldDepartment: {Locked, reason},
		FieldPassword:   {Locked, reason},
		FieldActive:     {Locked, reason},
		FieldRoles:      {Locked, reason},
	}
}

// ForRole computes the capability descriptor of a role. System roles and
// roles already assigned to accounts keep their name.
func ForRole(r backend.Role) Descriptor {
	switch {
	case r.IsSystem:
		return Descriptor{FieldName: {Locked, "system role"}}
	case r.UsageCount > 0:
		return Descriptor{FieldName: {Locked, "role is in use"}}
	default:
		return Descriptor{}
	}
}
