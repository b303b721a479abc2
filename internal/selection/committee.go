package selection

// Committee is the opening committee selection: any number of members with
// exactly one of them flagged as head. The head can only be picked from the
// member set, and dropping the head's membership clears the head too.
type Committee struct {
	members Picker
	head    Single
}

// ToggleMember flips membership of id. Removing the current head clears the
// head selection as well.
func (c *Committee) ToggleMember(id int64) {
	wasMember := c.members.Has(id)

	c.members.Toggle(id)

	if wasMember && c.head.Has(id) {
		c.head.Clear()
	}
}

// SetHead selects id as head. The id must already be a member.
func (c *Committee) SetHead(id int64) error {
	if !c.members.Has(id) {
		return ErrHeadNotMember
	}

	c.head.Select(id)

	return nil
}

// ClearHead removes the head selection.
func (c *Committee) ClearHead() {
	c.head.Clear()
}

// SetMembers replaces the member set, keeping the head only if it is still
// a member.
func (c *Committee) SetMembers(ids []int64) {
	c.members.SetSelected(ids)

	if id, ok := c.head.ID(); ok && !c.members.Has(id) {
		c.head.Clear()
	}
}

// Members returns the member ids in selection order.
func (c *Committee) Members() []int64 {
	return c.members.Selected()
}

// IsMember reports whether id is part of the committee.
func (c *Committee) IsMember(id int64) bool {
	return c.members.Has(id)
}

// Head returns the head id and whether one is selected.
func (c *Committee) Head() (int64, bool) {
	return c.head.ID()
}

// Validate checks the committee before a save: at least one member and a
// head drawn from the member set.
func (c *Committee) Validate() error {
	if c.members.Count() == 0 {
		return ErrTooFewSelected
	}

	id, ok := c.head.ID()
	if !ok {
		return ErrNoHead
	}

	if !c.members.Has(id) {
		return ErrHeadNotMember
	}

	return nil
}
