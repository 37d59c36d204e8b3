// Package shadow implements the name-shadowing rule: it builds a tree of
// nested lexical scopes from a Kotlin syntax tree, classifies every
// binding occurrence, resolves which same-scope and ancestor-scope pairs
// genuinely conflict under the exception policy, and emits a
// deterministic list of findings.
package shadow

import (
	"shadowlint/internal/parser"
)

// Config is the rule's configuration surface.
type Config struct {
	// AllowImplicitItShadows exempts the implicit lambda parameter `it`
	// from shadow detection entirely. When false (the default), nested
	// parameterless lambdas that re-introduce `it` are flagged like any
	// other shadowing binding.
	AllowImplicitItShadows bool
}

// Analyzer runs the shadowing rule over parsed source units. It holds no
// per-unit state: every Analyze call builds a fresh scope tree and
// discards it, so one Analyzer may be used for any number of files and
// concurrently across files.
type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs the rule over one parsed source unit. It always returns
// best-effort results: structural errors in the tree are collected, never
// fatal, and findings cover everything that could be classified.
func (a *Analyzer) Analyze(res *parser.ParseResult) ([]Finding, []parser.StructuralError) {
	b := &builder{cfg: a.cfg, path: res.Path, source: res.Source}
	root, errs := b.build(res.Root)
	resolve(root)
	return collectFindings(root, res.Path), errs
}
