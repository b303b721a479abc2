package auth

// Role name constants define the roles known to the procurement workflow.
// The set is owned by the API; these constants only name the roles the
// portal gates screens on.
const (
	// RoleRequester is the baseline role every staff account holds. It can
	// never be removed in the role picker.
	RoleRequester = "REQUESTER"

	// RoleRequisitionOfficer allows working assigned requisitions.
	RoleRequisitionOfficer = "REQUISITION_OFFICER"
	// RoleRequisitionManager allows approving requisitions and assigning
	// requisition officers.
	RoleRequisitionManager = "REQUISITION_MANAGER"

	// RoleTenderOfficer allows preparing tender documents.
	RoleTenderOfficer = "TENDER_OFFICER"
	// RoleTenderPrepManager allows overseeing tender preparation.
	RoleTenderPrepManager = "TENDER_PREP_MANAGER"

	// RoleOpeningCommitteeMember allows sitting on bid opening committees.
	RoleOpeningCommitteeMember = "OPENING_COMMITTEE_MEMBER"
	// RolePublicationPreparer allows drafting tender publications.
	RolePublicationPreparer = "PUBLICATION_PREPARER"
	// RolePublicationManager allows releasing tender publications.
	RolePublicationManager = "PUBLICATION_MANAGER"
	// RoleEvaluationCommitteeMember allows scoring submitted bids.
	RoleEvaluationCommitteeMember = "EVALUATION_COMMITTEE_MEMBER"
	// RoleAwardApprover allows approving award recommendations.
	RoleAwardApprover = "AWARD_APPROVER"

	// RoleSysAdmin allows managing application settings and all screens.
	RoleSysAdmin = "SYS_ADMIN"
	// RoleUserAdmin allows managing portal accounts and roles.
	RoleUserAdmin = "USER_ADMIN"
)

// AllowedRoleNames is the allow-list of roles the user admin screen offers
// in its role picker. Supplier and bidder accounts are provisioned through
// the supplier registration flow, never assigned by hand, so their roles
// are not listed here.
var AllowedRoleNames = []string{ //nolint:gochecknoglobals
	RoleRequester,
	RoleRequisitionOfficer,
	RoleRequisitionManager,
	RoleTenderOfficer,
	RoleTenderPrepManager,
	RoleOpeningCommitteeMember,
	RolePublicationPreparer,
	RolePublicationManager,
	RoleEvaluationCommitteeMember,
	RoleAwardApprover,
	RoleSysAdmin,
	RoleUserAdmin,
}

// RoleNameAllowed reports whether the user admin screen may assign a role.
func RoleNameAllowed(name string) bool {
	for _, allowed := range AllowedRoleNames {
		if allowed == name {
			return true
		}
	}

	return false
}

// HoldsRole reports whether a role name list contains the given role. The
// assignment screens use it to hide administrator accounts from candidate
// lists.
func HoldsRole(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}

	return false
}
