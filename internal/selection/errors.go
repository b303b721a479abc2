package selection

import "errors"

var (
	// ErrOfficerCount is returned when an officer selection does not hold
	// exactly two officers at save time.
	ErrOfficerCount = errors.New("select exactly two officers")

	// ErrTooFewSelected is returned when a picker holds fewer entries than
	// its minimum.
	ErrTooFewSelected = errors.New("too few entries selected")

	// ErrTooManySelected is returned when a picker holds more entries than
	// its maximum.
	ErrTooManySelected = errors.New("too many entries selected")

	// ErrNoPreparers is returned when a publication team is saved without a
	// single preparer.
	ErrNoPreparers = errors.New("select at least one preparer")

	// ErrNoManager is returned when a publication team is saved without a
	// manager.
	ErrNoManager = errors.New("select a publication manager")

	// ErrNoHead is returned when a committee is saved without a head.
	ErrNoHead = errors.New("select a committee head")

	// ErrHeadNotMember is returned when the committee head is not part of
	// the member set.
	ErrHeadNotMember = errors.New("committee head must be a committee member")
)
