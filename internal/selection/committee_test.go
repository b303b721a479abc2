package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tenderdesk/internal/selection"
)

func TestCommitteeHeadMustBeMember(t *testing.T) {
	var c selection.Committee

	require.ErrorIs(t, c.SetHead(1), selection.ErrHeadNotMember)

	c.ToggleMember(1)
	require.NoError(t, c.SetHead(1))

	head, ok := c.Head()
	require.True(t, ok)
	assert.Equal(t, int64(1), head)
}

func TestCommitteeRemovingHeadClearsHead(t *testing.T) {
	var c selection.Committee

	c.ToggleMember(1)
	c.ToggleMember(2)
	require.NoError(t, c.SetHead(1))

	c.ToggleMember(1)

	_, ok := c.Head()
	assert.False(t, ok)
	assert.Equal(t, []int64{2}, c.Members())
}

func TestCommitteeRemovingNonHeadKeepsHead(t *testing.T) {
	var c selection.Committee

	c.ToggleMember(1)
	c.ToggleMember(2)
	require.NoError(t, c.SetHead(1))

	c.ToggleMember(2)

	head, ok := c.Head()
	require.True(t, ok)
	assert.Equal(t, int64(1), head)
}

func TestCommitteeValidate(t *testing.T) {
	var c selection.Committee

	require.ErrorIs(t, c.Validate(), selection.ErrTooFewSelected)

	c.ToggleMember(1)
	require.ErrorIs(t, c.Validate(), selection.ErrNoHead)

	require.NoError(t, c.SetHead(1))
	require.NoError(t, c.Validate())
}

func TestCommitteeSetMembers(t *testing.T) {
	var c selection.Committee

	c.ToggleMember(1)
	c.ToggleMember(2)
	require.NoError(t, c.SetHead(2))

	// replacing members keeps the head while it is still a member
	c.SetMembers([]int64{2, 3})
	head, ok := c.Head()
	require.True(t, ok)
	assert.Equal(t, int64(2), head)

	// and clears it once it is not
	c.SetMembers([]int64{3, 4})
	_, ok = c.Head()
	assert.False(t, ok)
}
