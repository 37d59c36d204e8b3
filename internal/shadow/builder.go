package shadow

import (
	sitter "github.com/smacker/go-tree-sitter"

	"shadowlint/internal/parser"
)

// builder performs the single top-down traversal that produces the scope
// tree. It maintains the current scope explicitly through the recursion
// instead of relying on captured mutable state.
type builder struct {
	cfg    Config
	path   string
	source []byte
	errors []parser.StructuralError
}

// build walks the tree rooted at rootNode and returns the populated scope
// tree plus every structural error encountered. Malformed subtrees are
// recorded and skipped over; the traversal never aborts.
func (b *builder) build(rootNode *sitter.Node) (*Scope, []parser.StructuralError) {
	root := newScope(rootNode, nil)
	b.walkChildren(rootNode, root)
	return root, b.errors
}

func (b *builder) walkChildren(node *sitter.Node, scope *Scope) {
	for i := 0; i < int(node.ChildCount()); i++ {
		b.walk(node.Child(i), scope)
	}
}

func (b *builder) walk(node *sitter.Node, scope *Scope) {
	if node == nil {
		return
	}
	if node.IsMissing() {
		b.recordError("missing", node)
		return
	}
	if parser.IsErrorNode(node) {
		b.recordError("error", node)
		b.walkChildren(node, scope)
		return
	}

	switch node.Type() {
	case parser.KindClassDeclaration, parser.KindObjectDeclaration, parser.KindObjectLiteral:
		b.walkChildren(node, newScope(node, scope))

	case parser.KindCompanionObject:
		companion := newScope(node, scope)
		companion.IsCompanion = true
		b.walkChildren(node, companion)

	case parser.KindFunctionDeclaration:
		// The function's name is visible in the enclosing scope; its
		// parameters and body live in a fresh one.
		if bind := b.classifyFunction(node); bind != nil {
			scope.Register(bind)
		}
		b.walkChildren(node, newScope(node, scope))

	case parser.KindSecondaryConstructor, parser.KindAnonymousFunction,
		parser.KindAnonymousInitializer, parser.KindGetter, parser.KindSetter,
		parser.KindForStatement, parser.KindControlStructureBody:
		b.walkChildren(node, newScope(node, scope))

	case parser.KindCatchBlock:
		catch := newScope(node, scope)
		if bind := b.classifyCatchParameter(node); bind != nil {
			catch.Register(bind)
		}
		b.walkChildren(node, catch)

	case parser.KindLambdaLiteral:
		lambda := newScope(node, scope)
		if bind := b.classifyImplicitIt(node); bind != nil {
			lambda.Register(bind)
		}
		b.walkChildren(node, lambda)

	case parser.KindClassParameter:
		if bind := b.newBinding(node, KindParameter); bind != nil {
			scope.Register(bind)
		}

	case parser.KindParameter, parser.KindParameterWithOptional:
		// Parameter names inside function type signatures are type
		// annotations, never bindings.
		if parser.InsideFunctionType(node) {
			return
		}
		if bind := b.newBinding(node, KindParameter); bind != nil {
			scope.Register(bind)
		}

	case parser.KindVariableDeclaration:
		if bind := b.classifyVariable(node); bind != nil {
			scope.Register(bind)
		}

	case parser.KindLabel:
		if bind := b.newBinding(node, KindLabel); bind != nil {
			scope.Register(bind)
		}

	default:
		b.walkChildren(node, scope)
	}
}

// newBinding classifies a name-introducing node. It returns nil for
// discard names and for nodes whose name cannot be extracted; such nodes
// are treated as inert rather than failing the analysis.
func (b *builder) newBinding(node *sitter.Node, kind BindingKind) *Binding {
	name := parser.NodeName(node, b.source)
	if name == "" || parser.IsDiscardName(name) {
		return nil
	}
	return &Binding{Name: name, Kind: kind, Node: node, source: b.source}
}

func (b *builder) classifyFunction(node *sitter.Node) *Binding {
	return b.newBinding(node, KindFunction)
}

// classifyVariable maps a variable declaration to a binding kind based on
// the construct it appears in.
func (b *builder) classifyVariable(node *sitter.Node) *Binding {
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Type() {
	case parser.KindMultiVariableDeclaration:
		return b.newBinding(node, KindDestructuredElement)
	case parser.KindLambdaParameters:
		return b.newBinding(node, KindParameter)
	case parser.KindPropertyDeclaration, parser.KindForStatement, parser.KindWhenSubject:
		return b.newBinding(node, KindProperty)
	}
	return b.newBinding(node, KindProperty)
}

// classifyCatchParameter extracts the exception binding of a catch block.
func (b *builder) classifyCatchParameter(node *sitter.Node) *Binding {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == parser.KindSimpleIdentifier {
			return b.newBinding(child, KindParameter)
		}
	}
	return nil
}

// classifyImplicitIt decides whether a lambda introduces the implicit `it`
// parameter. Syntax alone cannot distinguish a zero-parameter lambda from
// one with an unused implicit parameter, so `it` is registered only when
// the lambda has no explicit parameter list and its body references `it`
// outside nested lambdas that rebind it.
func (b *builder) classifyImplicitIt(node *sitter.Node) *Binding {
	if b.cfg.AllowImplicitItShadows {
		return nil
	}
	if hasExplicitLambdaParameters(node) {
		return nil
	}
	if !referencesImplicitIt(node, b.source) {
		return nil
	}
	return &Binding{
		Name:     parser.ImplicitItName,
		Kind:     KindParameter,
		Node:     node,
		Implicit: true,
		source:   b.source,
	}
}

func (b *builder) recordError(kind string, node *sitter.Node) {
	snippet := parser.Text(node, b.source)
	if len(snippet) > 80 {
		snippet = snippet[:80]
	}
	b.errors = append(b.errors, parser.StructuralError{
		Kind:     kind,
		Snippet:  snippet,
		Location: parser.LocationOf(b.path, node),
	})
}

func hasExplicitLambdaParameters(lambda *sitter.Node) bool {
	for i := 0; i < int(lambda.ChildCount()); i++ {
		if lambda.Child(i).Type() == parser.KindLambdaParameters {
			return true
		}
	}
	return false
}

// referencesImplicitIt scans a lambda body for a use of `it`, skipping
// nested parameterless lambdas since those rebind `it` themselves.
func referencesImplicitIt(lambda *sitter.Node, source []byte) bool {
	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() == parser.KindLambdaLiteral && !hasExplicitLambdaParameters(child) {
				continue
			}
			if child.Type() == parser.KindSimpleIdentifier && parser.Text(child, source) == parser.ImplicitItName {
				return true
			}
			if visit(child) {
				return true
			}
		}
		return false
	}
	return visit(lambda)
}
