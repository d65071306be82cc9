package mailpath

// State records how far a Path has progressed through resolution.
// States only ever move forward.
type State int

const (
	// Fresh is a path exactly as the caller supplied it.
	Fresh State = iota
	// Tidied paths have been normalized by a backend but their kind is unknown.
	Tidied
	// Typed paths are tidied and have a kind.
	Typed
	// Canonical paths carry a canonical string and can be compared.
	Canonical
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Tidied:
		return "tidied"
	case Typed:
		return "typed"
	case Canonical:
		return "canonical"
	}
	return "invalid"
}

// IsTidied reports whether the original string has been normalized.
func (s State) IsTidied() bool { return s >= Tidied }

// IsTyped reports whether the kind is known.
func (s State) IsTyped() bool { return s >= Typed }

// IsCanonical reports whether the canonical string is set.
func (s State) IsCanonical() bool { return s == Canonical }
