package rolegroup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/tenderdesk/internal/rolegroup"
)

func TestClassify(t *testing.T) {
	groups := rolegroup.Classify([]string{
		"REQUESTER",
		"REQUISITION_OFFICER",
		"SYS_ADMIN",
		"FOO_BAR",
	})

	require.Len(t, groups, 3)

	assert.Equal(t, rolegroup.KeyRequisition, groups[0].Key)
	assert.Equal(t, []string{"REQUESTER", "REQUISITION_OFFICER"}, groups[0].Members)

	assert.Equal(t, rolegroup.KeyAdmin, groups[1].Key)
	assert.Equal(t, []string{"SYS_ADMIN"}, groups[1].Members)

	assert.Equal(t, rolegroup.KeyOther, groups[2].Key)
	assert.Equal(t, []string{"FOO_BAR"}, groups[2].Members)
}

func TestClassifyDeterministic(t *testing.T) {
	roles := []string{
		"PUBLICATION_MANAGER",
		"TENDER_OFFICER",
		"BIDDER",
		"SUPPLIER_CONTACT",
		"REQUESTER",
		"TENDER_PREP_MANAGER",
		"USER_ADMIN",
		"ZZZ_UNKNOWN",
	}

	first := rolegroup.Classify(roles)

	for i := 0; i < 20; i++ {
		assert.Equal(t, first, rolegroup.Classify(roles))
	}
}

func TestClassifyOrdering(t *testing.T) {
	groups := rolegroup.Classify([]string{
		"ZZZ_UNKNOWN",
		"USER_ADMIN",
		"BIDDER",
		"SUPPLIER_CONTACT",
		"OPENING_COMMITTEE_MEMBER",
		"TENDER_OFFICER",
		"REQUISITION_MANAGER",
	})

	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}

	assert.Equal(t, []string{
		rolegroup.KeyRequisition,
		rolegroup.KeyTendering,
		rolegroup.KeyTenderOther,
		rolegroup.KeySupplier,
		rolegroup.KeyBidder,
		rolegroup.KeyAdmin,
		rolegroup.KeyOther,
	}, keys)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// TENDER_ADMIN matches the tendering prefix before the admin suffix.
	groups := rolegroup.Classify([]string{"TENDER_ADMIN"})

	require.Len(t, groups, 1)
	assert.Equal(t, rolegroup.KeyTendering, groups[0].Key)
}

func TestClassifyDropsBlankNames(t *testing.T) {
	groups := rolegroup.Classify([]string{"", "   ", "REQUESTER"})

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"REQUESTER"}, groups[0].Members)

	assert.Empty(t, rolegroup.Classify([]string{"", "  "}))
}

func TestClassifySortsMembers(t *testing.T) {
	groups := rolegroup.Classify([]string{
		"REQUISITION_OFFICER",
		"REQUISITION_MANAGER",
		"REQUESTER",
	})

	require.Len(t, groups, 1)
	assert.Equal(t,
		[]string{"REQUESTER", "REQUISITION_MANAGER", "REQUISITION_OFFICER"},
		groups[0].Members,
	)
}

func TestDefaultOpen(t *testing.T) {
	assert.True(t, rolegroup.DefaultOpen(rolegroup.KeyRequisition))
	assert.True(t, rolegroup.DefaultOpen(rolegroup.KeyTendering))
	assert.False(t, rolegroup.DefaultOpen(rolegroup.KeyAdmin))
	assert.False(t, rolegroup.DefaultOpen(rolegroup.KeyOther))
}
