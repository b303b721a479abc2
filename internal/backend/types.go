package backend

// User is a portal account as returned by the procurement API. IsSystem
// marks a non-deletable account whose identity fields are locked in the
// edit screen.
type User struct {
	ID         int64    `json:"id"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	IsActive   bool     `json:"isActive"`
	IsSystem   bool     `json:"isSystem"`
	Department string   `json:"department,omitempty"`
	Roles      []Role   `json:"roles,omitempty"`
	RoleNames  []string `json:"roleNames,omitempty"`
}

// Role as returned by the procurement API. System roles and roles already
// in use can not be renamed.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsSystem    bool   `json:"isSystem"`
	UsageCount  int    `json:"usageCount"`
}

// Department reference data.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Currency reference data.
type Currency struct {
	ID     int64  `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Supplier registration, reviewed on the supplier approval screen.
type Supplier struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status"` // pending, approved, rejected
	CreatedAt string `json:"createdAt,omitempty"`
}

// Requisition work item. OfficerAssignments is the server-provided
// assignment relation; the screens only check whether it is empty to
// partition assigned from unassigned items.
type Requisition struct {
	ID                 int64               `json:"id"`
	Reference          string              `json:"reference"`
	Title              string              `json:"title"`
	Status             string              `json:"status"`
	Department         string              `json:"department,omitempty"`
	OfficerAssignments []OfficerAssignment `json:"officerAssignments,omitempty"`
}

// Tender work item with all assignment relations the screens partition on.
type Tender struct {
	ID                 int64               `json:"id"`
	Reference          string              `json:"reference"`
	Title              string              `json:"title"`
	Status             string              `json:"status"`
	OfficerAssignments []OfficerAssignment `json:"officerAssignments,omitempty"`
	PrepManagerID      *int64              `json:"prepManagerId,omitempty"`
	OpeningCommittee   []CommitteeMember   `json:"openingCommittee,omitempty"`
	PublicationSetups  []PublicationSetup  `json:"publicationSetups,omitempty"`
}

// OfficerAssignment is one officer slot on a work item. On save the first
// entry of the list carries the lead flag.
type OfficerAssignment struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName,omitempty"`
	IsLead   bool   `json:"isLead"`
}

// CommitteeMember is one member of an opening committee.
type CommitteeMember struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName,omitempty"`
	IsHead   bool   `json:"isHead"`
}

// PublicationSetup is one member of a publication team.
type PublicationSetup struct {
	UserID    int64  `json:"userId"`
	FullName  string `json:"fullName,omitempty"`
	IsManager bool   `json:"isManager"`
}

// OfficerAssignmentUpdate is the full desired officer state for a work
// item: the officer list in order (first one is the lead) plus the optional
// manager. A nil ManagerID is an explicit unassign.
type OfficerAssignmentUpdate struct {
	Officers  []OfficerAssignment `json:"officers"`
	ManagerID *int64              `json:"managerId"`
}

// CommitteeUpdate is the full desired opening committee.
type CommitteeUpdate struct {
	MemberIDs []int64 `json:"memberIds"`
	HeadID    int64   `json:"headId"`
}

// PublicationTeamUpdate is the full desired publication team.
type PublicationTeamUpdate struct {
	PreparerIDs []int64 `json:"preparerIds"`
	ManagerID   int64   `json:"managerId"`
}

// PrepManagerUpdate sets or clears a tender's preparation manager.
type PrepManagerUpdate struct {
	ManagerID *int64 `json:"managerId"`
}
