// Package rolegroup classifies the flat role list returned by the
// procurement API into named display buckets for the role picker.
package rolegroup

import (
	"sort"
	"strings"
)

// Group keys in display order. Unmatched roles land in KeyOther which is
// always rendered last.
const (
	KeyRequisition = "requisition"
	KeyTendering   = "tendering"
	KeyTenderOther = "tender_other"
	KeySupplier    = "supplier"
	KeyBidder      = "bidder"
	KeyAdmin       = "admin"
	KeyOther       = "other"
)

// Group is one display bucket of role names.
type Group struct {
	Key     string
	Label   string
	Order   int
	Members []string
}

// rule is a single classification rule. Rules are evaluated in order and the
// first match wins, so a role name can never land in two buckets.
type rule struct {
	key     string
	label   string
	order   int
	defOpen bool
	match   func(name string) bool
}

var rules = []rule{ //nolint:gochecknoglobals
	{
		key:     KeyRequisition,
		label:   "Requisition",
		order:   1,
		defOpen: true,
		match: func(name string) bool {
			return name == "REQUESTER" || strings.HasPrefix(name, "REQUISITION_")
		},
	},
	{
		key:     KeyTendering,
		label:   "Tendering",
		order:   2,
		defOpen: true,
		match: func(name string) bool {
			return strings.HasPrefix(name, "TENDER_")
		},
	},
	{
		key:     KeyTenderOther,
		label:   "Opening, Publication & Award",
		order:   3,
		defOpen: false,
		match: func(name string) bool {
			switch name {
			case "OPENING_COMMITTEE_MEMBER",
				"PUBLICATION_PREPARER",
				"PUBLICATION_MANAGER",
				"EVALUATION_COMMITTEE_MEMBER",
				"AWARD_APPROVER":
				return true
			}

			return false
		},
	},
	{
		key:     KeySupplier,
		label:   "Supplier",
		order:   4,
		defOpen: false,
		match: func(name string) bool {
			return strings.HasPrefix(name, "SUPPLIER_")
		},
	},
	{
		key:     KeyBidder,
		label:   "Bidder",
		order:   5,
		defOpen: false,
		match: func(name string) bool {
			return strings.HasPrefix(name, "BIDDER")
		},
	},
	{
		key:     KeyAdmin,
		label:   "Administration",
		order:   6,
		defOpen: false,
		match: func(name string) bool {
			return name == "SYS_ADMIN" || name == "USER_ADMIN" || strings.HasSuffix(name, "_ADMIN")
		},
	},
}

const otherOrder = 99

// Classify maps a flat list of role names into ordered display groups.
// Blank names are dropped, groups without members are omitted, and members
// are sorted lexicographically inside each group. The result depends only on
// the input names.
func Classify(roles []string) []Group {
	byKey := make(map[string]*Group)

	for _, name := range roles {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		r := matchRule(name)

		g, ok := byKey[r.key]
		if !ok {
			g = &Group{Key: r.key, Label: r.label, Order: r.order}
			byKey[r.key] = g
		}

		g.Members = append(g.Members, name)
	}

	groups := make([]Group, 0, len(byKey))

	for _, g := range byKey {
		sort.Strings(g.Members)
		groups = append(groups, *g)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Order < groups[j].Order
	})

	return groups
}

// DefaultOpen reports whether a group key renders expanded by default.
func DefaultOpen(key string) bool {
	for _, r := range rules {
		if r.key == key {
			return r.defOpen
		}
	}

	return false
}

func matchRule(name string) rule {
	for _, r := range rules {
		if r.match(name) {
			return r
		}
	}

	return rule{key: KeyOther, label: "Other", order: otherOrder}
}
