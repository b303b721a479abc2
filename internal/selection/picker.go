package selection

// Picker is an ordered selection set with an optional cardinality cap.
// Toggling an unselected id adds it unless the cap is reached; toggling a
// selected id removes it. A toggle that would exceed the cap is silently
// rejected, the screen disables the remaining checkboxes instead of
// erroring.
type Picker struct {
	// Min entries required to pass Validate. Zero means no minimum.
	Min int
	// Max entries the picker accepts. Zero means unlimited.
	Max int

	ids []int64
}

// NewOfficerPicker returns the picker used for requisition and tender
// officers: exactly two, in selection order, the first one is the lead.
func NewOfficerPicker() *Picker {
	return &Picker{Min: 2, Max: 2}
}

// NewPreparerPicker returns the picker used for publication preparers:
// one or more, no cap.
func NewPreparerPicker() *Picker {
	return &Picker{Min: 1}
}

// Toggle flips membership of id and reports whether the state changed.
func (p *Picker) Toggle(id int64) bool {
	for i, have := range p.ids {
		if have == id {
			p.ids = append(p.ids[:i], p.ids[i+1:]...)
			return true
		}
	}

	if p.Max > 0 && len(p.ids) >= p.Max {
		return false
	}

	p.ids = append(p.ids, id)

	return true
}

// Has reports whether id is currently selected.
func (p *Picker) Has(id int64) bool {
	for _, have := range p.ids {
		if have == id {
			return true
		}
	}

	return false
}

// Full reports whether the picker reached its cap.
func (p *Picker) Full() bool {
	return p.Max > 0 && len(p.ids) >= p.Max
}

// Count returns the number of selected entries.
func (p *Picker) Count() int {
	return len(p.ids)
}

// Selected returns the selected ids in selection order.
func (p *Picker) Selected() []int64 {
	out := make([]int64, len(p.ids))
	copy(out, p.ids)

	return out
}

// SetSelected replaces the selection, truncating at the cap.
func (p *Picker) SetSelected(ids []int64) {
	p.ids = p.ids[:0]

	for _, id := range ids {
		if p.Has(id) {
			continue
		}

		if p.Max > 0 && len(p.ids) >= p.Max {
			break
		}

		p.ids = append(p.ids, id)
	}
}

// Validate checks the cardinality constraint before a save.
func (p *Picker) Validate() error {
	if p.Min == 2 && p.Max == 2 && len(p.ids) != 2 {
		return ErrOfficerCount
	}

	if len(p.ids) < p.Min {
		return ErrTooFewSelected
	}

	if p.Max > 0 && len(p.ids) > p.Max {
		return ErrTooManySelected
	}

	return nil
}
