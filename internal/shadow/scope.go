package shadow

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Scope is one node of the lexical scope tree. Scopes are created during
// the single traversal, mutated by registration during that traversal and
// by conflict accumulation during resolution, and discarded once findings
// have been emitted.
type Scope struct {
	// Construct is the syntax node that introduced this scope.
	Construct *sitter.Node
	Parent    *Scope
	Children  []*Scope

	// IsCompanion marks companion object scopes. Their direct member
	// registrations resolve as members of the surrounding type, so
	// Register forwards them to the parent scope; the scope object still
	// exists so nested scopes stay correctly nested.
	IsCompanion bool

	bindings map[string][]*Binding
	names    []string // registration order of first appearance per name

	conflicts   []*Binding
	conflictSet map[*Binding]struct{}
}

func newScope(construct *sitter.Node, parent *Scope) *Scope {
	s := &Scope{
		Construct:   construct,
		Parent:      parent,
		bindings:    make(map[string][]*Binding),
		conflictSet: make(map[*Binding]struct{}),
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Register records a binding in this scope. Companion scopes forward to
// the enclosing scope.
func (s *Scope) Register(b *Binding) {
	if s.IsCompanion && s.Parent != nil {
		s.Parent.Register(b)
		return
	}
	if _, seen := s.bindings[b.Name]; !seen {
		s.names = append(s.names, b.Name)
	}
	s.bindings[b.Name] = append(s.bindings[b.Name], b)
}

// Bindings returns the bindings registered under name in this scope, in
// registration order.
func (s *Scope) Bindings(name string) []*Binding {
	return s.bindings[name]
}

// Names returns all registered names in first-registration order.
func (s *Scope) Names() []string {
	return s.names
}

func (s *Scope) addConflict(b *Binding) {
	if _, ok := s.conflictSet[b]; ok {
		return
	}
	s.conflictSet[b] = struct{}{}
	s.conflicts = append(s.conflicts, b)
}

// Conflicts returns the bindings known to violate the shadowing policy at
// this scope, in accumulation order.
func (s *Scope) Conflicts() []*Binding {
	return s.conflicts
}
