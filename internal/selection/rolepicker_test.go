package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tenderdesk/tenderdesk/internal/selection"
)

func TestRolePickerBaselineLocked(t *testing.T) {
	p := selection.NewRolePicker()

	assert.True(t, p.Has(selection.BaselineRole))
	assert.True(t, p.Locked(selection.BaselineRole))

	// toggling the locked role is a no-op
	p.Toggle(selection.BaselineRole)
	assert.True(t, p.Has(selection.BaselineRole))
}

func TestRolePickerToggle(t *testing.T) {
	p := selection.NewRolePicker()

	p.Toggle("TENDER_OFFICER")
	assert.True(t, p.Has("TENDER_OFFICER"))

	p.Toggle("TENDER_OFFICER")
	assert.False(t, p.Has("TENDER_OFFICER"))
}

func TestRolePickerSelfHealing(t *testing.T) {
	p := selection.NewRolePicker()

	// a selection handed in without the baseline gets it back
	p.SetSelected([]string{"SYS_ADMIN", "TENDER_OFFICER"})

	assert.True(t, p.Has(selection.BaselineRole))
	assert.Equal(t,
		[]string{"REQUESTER", "SYS_ADMIN", "TENDER_OFFICER"},
		p.Selected(),
	)
}

func TestRolePickerBaselineSurvivesAnyToggleSequence(t *testing.T) {
	p := selection.NewRolePicker()

	toggles := []string{
		"SYS_ADMIN", selection.BaselineRole, "TENDER_OFFICER",
		selection.BaselineRole, "SYS_ADMIN", selection.BaselineRole,
	}

	for _, name := range toggles {
		p.Toggle(name)
		assert.True(t, p.Has(selection.BaselineRole))
	}
}

func TestRolePickerDropsBlankNames(t *testing.T) {
	p := selection.NewRolePicker()

	p.SetSelected([]string{"", "SYS_ADMIN"})

	assert.Equal(t, []string{"REQUESTER", "SYS_ADMIN"}, p.Selected())
}
