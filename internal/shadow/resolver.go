package shadow

// resolve runs the two resolution passes over a completed scope tree.
// Gathering settles every scope's conflict set before any finding is
// read out: a scope's own intra-scope conflicts must be resolved before
// descendants test against it, and reporting must observe fully settled
// sets to stay deterministic.
func resolve(root *Scope) {
	gather(root)
}

// gather computes intra-scope conflicts for a scope and propagates its
// bindings against every ancestor, then recurses. Pre-order guarantees
// ancestors have finished their own intra-scope resolution first.
func gather(s *Scope) {
	gatherIntraScope(s)
	propagateToAncestors(s)
	for _, child := range s.Children {
		gather(child)
	}
}

// gatherIntraScope flags same-name sibling bindings pairwise. With more
// than two bindings per name every pair is evaluated; any binding in any
// non-exempted pair is conflicting. Quadratic in same-name bindings per
// scope, which stays tiny in practice.
func gatherIntraScope(s *Scope) {
	for _, name := range s.Names() {
		group := s.Bindings(name)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if exemptPair(group[i], group[j]) {
					continue
				}
				s.addConflict(group[i])
				s.addConflict(group[j])
			}
		}
	}
}

// exemptPair implements the intra-scope exception policy: two same-named
// bindings in one scope are legitimate when any rule matches.
func exemptPair(a, b *Binding) bool {
	// Secondary constructors may reuse primary constructor parameter names.
	if constructorPair(a, b) || constructorPair(b, a) {
		return true
	}
	// A public function overloading an exposed constructor property.
	if exposedOverloadPair(a, b) || exposedOverloadPair(b, a) {
		return true
	}
	// Exposed API members may share a name slot (getter/setter style).
	if a.isExposedMember() && b.isExposedMember() {
		return true
	}
	// Function/function reuse is overload resolution's business.
	if a.IsFunction() && b.IsFunction() {
		return true
	}
	return false
}

func constructorPair(a, b *Binding) bool {
	return a.IsPrimaryConstructorParam() && b.IsSecondaryConstructorParam()
}

func exposedOverloadPair(a, b *Binding) bool {
	return a.isExposedMember() && b.isExposedPropertyParam()
}

// propagateToAncestors tests every binding of s against the bindings of
// each strict ancestor. A hit marks both sides conflicting in the
// *ancestor's* set, and propagation keeps walking upward regardless.
//
// Exceptions: overriding functions are expected to reuse ancestor names
// and never propagate; bindings local to a companion scope's subtree stop
// at the companion boundary, since they are visible only within it; and
// secondary constructor parameters may reuse their own class's primary
// constructor parameter names.
func propagateToAncestors(s *Scope) {
	for _, name := range s.Names() {
		for _, bind := range s.Bindings(name) {
			if bind.IsOverride() {
				continue
			}
			anc := s
			for anc.Parent != nil {
				if anc.IsCompanion && bind.isScopeLocal() {
					break
				}
				anc = anc.Parent
				for _, other := range anc.Bindings(bind.Name) {
					if exemptShadowPair(bind, s, other, anc) {
						continue
					}
					anc.addConflict(other)
					anc.addConflict(bind)
				}
			}
		}
	}
}

// exemptShadowPair is the cross-scope exception: a secondary constructor
// parameter may reuse a primary constructor parameter name of its own
// class. The ancestor must be the constructor scope's direct parent so
// the exemption never reaches into outer classes.
func exemptShadowPair(bind *Binding, from *Scope, other *Binding, anc *Scope) bool {
	return anc == from.Parent &&
		bind.IsSecondaryConstructorParam() &&
		other.IsPrimaryConstructorParam()
}
