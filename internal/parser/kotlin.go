package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kotlin grammar node kinds consumed by the analysis. The names follow the
// tree-sitter Kotlin grammar bundled with smacker/go-tree-sitter.
const (
	KindSourceFile               = "source_file"
	KindClassDeclaration         = "class_declaration"
	KindObjectDeclaration        = "object_declaration"
	KindObjectLiteral            = "object_literal"
	KindCompanionObject          = "companion_object"
	KindClassBody                = "class_body"
	KindEnumClassBody            = "enum_class_body"
	KindPrimaryConstructor       = "primary_constructor"
	KindSecondaryConstructor     = "secondary_constructor"
	KindFunctionDeclaration      = "function_declaration"
	KindAnonymousFunction        = "anonymous_function"
	KindAnonymousInitializer     = "anonymous_initializer"
	KindGetter                   = "getter"
	KindSetter                   = "setter"
	KindLambdaLiteral            = "lambda_literal"
	KindLambdaParameters         = "lambda_parameters"
	KindForStatement             = "for_statement"
	KindCatchBlock               = "catch_block"
	KindControlStructureBody     = "control_structure_body"
	KindClassParameter           = "class_parameter"
	KindParameter                = "parameter"
	KindParameterWithOptional    = "parameter_with_optional_type"
	KindPropertyDeclaration      = "property_declaration"
	KindVariableDeclaration      = "variable_declaration"
	KindMultiVariableDeclaration = "multi_variable_declaration"
	KindWhenSubject              = "when_subject"
	KindLabel                    = "label"
	KindFunctionType             = "function_type"
	KindModifiers                = "modifiers"
	KindVisibilityModifier       = "visibility_modifier"
	KindMemberModifier           = "member_modifier"
	KindSimpleIdentifier         = "simple_identifier"
	KindTypeIdentifier           = "type_identifier"

	kindErrorNode = "ERROR"
)

const (
	// DiscardName is the placeholder for bindings that are deliberately
	// unused. It never participates in shadow checks.
	DiscardName = "_"

	// ImplicitItName is the conventional implicit single parameter of a
	// lambda without an explicit parameter list.
	ImplicitItName = "it"
)

// Text returns the source text covered by node.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}

// NodeName extracts the declared identifier of a name-introducing node:
// the first direct simple_identifier child. Labels are handled separately
// since their text carries a trailing "@".
func NodeName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if node.Type() == KindSimpleIdentifier {
		return Text(node, source)
	}
	if node.Type() == KindLabel {
		return strings.TrimSuffix(Text(node, source), "@")
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == KindSimpleIdentifier {
			return Text(child, source)
		}
	}
	return ""
}

// LocationOf converts a node's start point into a 1-based Location.
func LocationOf(path string, node *sitter.Node) Location {
	return Location{
		File:   path,
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column) + 1,
	}
}

func modifiersChild(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == KindModifiers {
			return child
		}
	}
	return nil
}

// VisibilityOf reads an explicit visibility modifier off a declaration
// node. Declarations without one are public, the Kotlin default.
func VisibilityOf(node *sitter.Node, source []byte) Visibility {
	mods := modifiersChild(node)
	if mods == nil {
		return VisibilityPublic
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child.Type() != KindVisibilityModifier {
			continue
		}
		switch Text(child, source) {
		case "private":
			return VisibilityPrivate
		case "protected":
			return VisibilityProtected
		case "internal":
			return VisibilityInternal
		case "public":
			return VisibilityPublic
		}
	}
	return VisibilityPublic
}

// IsOverride reports whether a declaration carries the override modifier.
func IsOverride(node *sitter.Node, source []byte) bool {
	mods := modifiersChild(node)
	if mods == nil {
		return false
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child.Type() == KindMemberModifier && Text(child, source) == "override" {
			return true
		}
	}
	return false
}

// HasBindingKeyword reports whether a primary constructor parameter is a
// property parameter (declared with val or var).
func HasBindingKeyword(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(i).Type() {
		case "val", "var", "binding_pattern_kind":
			return true
		}
	}
	return false
}

// InsideFunctionType reports whether a parameter node sits in type
// position: parameter names inside a function type signature are type
// annotations, not bindings.
func InsideFunctionType(node *sitter.Node) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case KindFunctionType:
			return true
		case KindFunctionDeclaration, KindClassBody, KindSourceFile:
			return false
		}
	}
	return false
}

// IsDiscardName reports whether name is the unused-binding placeholder.
func IsDiscardName(name string) bool {
	return name == DiscardName
}

// IsErrorNode reports whether the node is a parse error region.
func IsErrorNode(node *sitter.Node) bool {
	return node.Type() == kindErrorNode
}
