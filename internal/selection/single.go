package selection

// Single is a replace-on-select picker for manager style assignments:
// selecting a candidate replaces the previous one, selecting "(None)"
// clears it.
type Single struct {
	id  int64
	set bool
}

// Select replaces the current selection with id.
func (s *Single) Select(id int64) {
	s.id = id
	s.set = true
}

// Clear removes the selection, the explicit unassign.
func (s *Single) Clear() {
	s.id = 0
	s.set = false
}

// ID returns the selected id and whether one is selected.
func (s *Single) ID() (int64, bool) {
	return s.id, s.set
}

// Has reports whether id is the current selection.
func (s *Single) Has(id int64) bool {
	return s.set && s.id == id
}
