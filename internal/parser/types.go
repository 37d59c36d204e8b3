package parser

// Location is a 1-based source position used for diagnostics and report
// output.
type Location struct {
	File   string
	Line   int
	Column int
}

// Visibility is the declared visibility of a Kotlin declaration. The zero
// value is public, matching the language default.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityInternal
	VisibilityProtected
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityInternal:
		return "internal"
	case VisibilityProtected:
		return "protected"
	case VisibilityPrivate:
		return "private"
	default:
		return "public"
	}
}

// ExternallyVisible reports whether a declaration with this visibility is
// part of the surrounding unit's surface (everything except private).
func (v Visibility) ExternallyVisible() bool {
	return v != VisibilityPrivate
}

// StructuralError records a malformed region encountered while walking a
// syntax tree. Analysis continues past these; they are surfaced separately
// from findings so callers can assert on clean input independently.
type StructuralError struct {
	Kind     string // "error" or "missing"
	Snippet  string
	Location Location
}
