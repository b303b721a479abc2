package selection

import "sort"

// BaselineRole is granted to every account and can never be removed in the
// role picker.
const BaselineRole = "REQUESTER"

// RolePicker is the multi-select behind the user admin role assignment.
// The baseline role is locked: it is part of every selection and toggling
// it is a no-op. If a caller hands in a selection without it, the picker
// re-adds it.
type RolePicker struct {
	selected map[string]bool
}

// NewRolePicker returns a picker seeded with the locked baseline role.
func NewRolePicker() *RolePicker {
	return &RolePicker{
		selected: map[string]bool{BaselineRole: true},
	}
}

// Toggle flips membership of a role name. Locked roles are ignored.
func (r *RolePicker) Toggle(name string) {
	if r.Locked(name) {
		return
	}

	if r.selected[name] {
		delete(r.selected, name)
		return
	}

	r.selected[name] = true
}

// SetSelected replaces the selection. The baseline role is re-added if
// missing.
func (r *RolePicker) SetSelected(names []string) {
	r.selected = make(map[string]bool, len(names)+1)

	for _, name := range names {
		if name == "" {
			continue
		}

		r.selected[name] = true
	}

	r.selected[BaselineRole] = true
}

// Locked reports whether a role name can not be toggled.
func (r *RolePicker) Locked(name string) bool {
	return name == BaselineRole
}

// Has reports whether a role name is selected.
func (r *RolePicker) Has(name string) bool {
	return r.selected[name]
}

// Count returns the number of selected roles.
func (r *RolePicker) Count() int {
	return len(r.selected)
}

// Selected returns the selected role names sorted lexicographically.
func (r *RolePicker) Selected() []string {
	out := make([]string, 0, len(r.selected))

	for name := range r.selected {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
