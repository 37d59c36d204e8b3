package shadow

import (
	sitter "github.com/smacker/go-tree-sitter"

	"shadowlint/internal/parser"
)

// BindingKind classifies how a name was introduced.
type BindingKind int

const (
	KindParameter BindingKind = iota
	KindProperty
	KindDestructuredElement
	KindLabel
	KindFunction
)

func (k BindingKind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindProperty:
		return "property"
	case KindDestructuredElement:
		return "destructured_element"
	case KindLabel:
		return "label"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Binding is one occurrence that introduces a name into a scope. The node
// reference is non-owning: bindings do not outlive the syntax tree they
// were built from. All classification predicates are derived from the node
// on demand rather than stored, so they cannot diverge from the tree.
type Binding struct {
	Name string
	Kind BindingKind
	Node *sitter.Node

	// Implicit marks the conventional `it` parameter of a lambda that has
	// no explicit parameter list.
	Implicit bool

	source []byte
}

// declarationNode resolves the node that carries modifiers for this
// binding: variable declarations inherit them from the enclosing property
// declaration.
func (b *Binding) declarationNode() *sitter.Node {
	p := b.Node.Parent()
	if p == nil {
		return b.Node
	}
	switch p.Type() {
	case parser.KindPropertyDeclaration:
		return p
	case parser.KindMultiVariableDeclaration:
		if pp := p.Parent(); pp != nil && pp.Type() == parser.KindPropertyDeclaration {
			return pp
		}
		return p
	}
	return b.Node
}

func (b *Binding) Visibility() parser.Visibility {
	return parser.VisibilityOf(b.declarationNode(), b.source)
}

func (b *Binding) Location(path string) parser.Location {
	return parser.LocationOf(path, b.Node)
}

func (b *Binding) IsFunction() bool {
	return b.Kind == KindFunction
}

// IsOverride reports whether a function binding overrides a supertype
// member. Overrides are expected to reuse names visible in enclosing
// scopes and are never propagated upward.
func (b *Binding) IsOverride() bool {
	return b.Kind == KindFunction && parser.IsOverride(b.Node, b.source)
}

func (b *Binding) IsPrimaryConstructorParam() bool {
	return b.Node.Type() == parser.KindClassParameter
}

func (b *Binding) IsSecondaryConstructorParam() bool {
	if b.Kind != KindParameter || b.IsPrimaryConstructorParam() {
		return false
	}
	for n := b.Node.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case parser.KindSecondaryConstructor:
			return true
		case parser.KindFunctionDeclaration, parser.KindAnonymousFunction,
			parser.KindLambdaLiteral, parser.KindClassBody, parser.KindSourceFile:
			return false
		}
	}
	return false
}

// IsPropertyParam reports whether the binding is a primary constructor
// parameter declared with val or var, making it a member property.
func (b *Binding) IsPropertyParam() bool {
	return b.IsPrimaryConstructorParam() && parser.HasBindingKeyword(b.Node)
}

// IsLocalVariable reports whether the binding is a variable declared
// inside executable code rather than a member of a type or file.
func (b *Binding) IsLocalVariable() bool {
	if b.Kind != KindProperty && b.Kind != KindDestructuredElement {
		return false
	}
	decl := b.declarationNode()
	p := decl.Parent()
	if p == nil {
		return false
	}
	switch p.Type() {
	case parser.KindClassBody, parser.KindEnumClassBody, parser.KindSourceFile:
		return false
	}
	return true
}

// isExposedMember reports whether the binding is an externally visible
// (public, internal or protected) property or function of its lexical
// unit. Locals never qualify.
func (b *Binding) isExposedMember() bool {
	switch b.Kind {
	case KindFunction:
		return b.Visibility().ExternallyVisible()
	case KindProperty:
		return !b.IsLocalVariable() && b.Visibility().ExternallyVisible()
	}
	return false
}

// isExposedPropertyParam reports whether the binding is an externally
// visible primary constructor property parameter.
func (b *Binding) isExposedPropertyParam() bool {
	return b.IsPropertyParam() && b.Visibility().ExternallyVisible()
}

// isScopeLocal reports whether the binding is confined to its own scope
// subtree: local variables and parameters that do not surface as member
// properties. Used for the companion scope propagation boundary.
func (b *Binding) isScopeLocal() bool {
	if b.IsLocalVariable() {
		return true
	}
	return b.Kind == KindParameter && !b.IsPropertyParam()
}
