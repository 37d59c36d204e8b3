package shadow

import (
	"sort"

	"shadowlint/internal/parser"
)

const (
	// RuleID identifies the shadowing rule in report output.
	RuleID = "SHDW001"

	// Severity is the fixed classification of a shadowing finding:
	// a maintainability issue with a low fix cost.
	Severity = "warning"

	shadowedNameMessage = "name is already bound in this or an enclosing lexical scope; bindings must use unique names"
)

// Finding is one flagged binding. Immutable once produced.
type Finding struct {
	Name     string
	Kind     BindingKind
	Message  string
	Severity string
	Location parser.Location
}

// collectFindings walks the scope tree in creation order and emits every
// scope's conflict set, sorted by name and then source position. Scope
// creation order is a deterministic property of the traversal, so the
// full output is reproducible run to run.
//
// A binding that conflicts both inside its own scope and with an ancestor
// appears in two conflict sets and yields two findings; both are valid.
func collectFindings(root *Scope, path string) []Finding {
	findings := make([]Finding, 0)

	var visit func(s *Scope)
	visit = func(s *Scope) {
		conflicts := append([]*Binding(nil), s.Conflicts()...)
		sort.SliceStable(conflicts, func(i, j int) bool {
			if conflicts[i].Name != conflicts[j].Name {
				return conflicts[i].Name < conflicts[j].Name
			}
			return conflicts[i].Node.StartByte() < conflicts[j].Node.StartByte()
		})
		for _, bind := range conflicts {
			findings = append(findings, Finding{
				Name:     bind.Name,
				Kind:     bind.Kind,
				Message:  shadowedNameMessage,
				Severity: Severity,
				Location: bind.Location(path),
			})
		}
		for _, child := range s.Children {
			visit(child)
		}
	}
	visit(root)

	return findings
}
