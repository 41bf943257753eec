package ir

// Canonicalize assigns t a canonical representative type, caching it on
// t so repeated calls and downstream equality checks become pointer
// comparisons (§4.1, §4.9.2).
//
// It looks t's internal pretty-representation up in the Environment's
// canonicalTypes map, walking the candidate list from the end (most
// recently canonicalized first, per the source's iteration order). Each
// candidate is first checked against the ODR fast path (odrFastPathEligible):
// when t and a candidate share a Corpus, aren't anonymous, aren't one of
// the excluded kinds, and have identical size, the candidate is accepted
// without ever calling Equals (§4.9.2, I5, scenario S1). Otherwise Equals
// runs the full structural comparison.
//
// Composite candidates sharing a recursive type with t have their
// canonical-type assignment speculatively propagated before the recursive
// root's own canonicalization completes (see propagateCanonicalType); the
// propagation is confirmed if the root comparison that triggered it
// succeeds, or cancelled (and the type's canonical field cleared) if it
// fails.
func Canonicalize(t Type) Type {
	if t == nil {
		return nil
	}
	if c := t.CanonicalType(); c != nil {
		return c
	}

	env, _ := environmentOf(t)
	if env == nil {
		t.setCanonicalType(t)
		return t
	}
	if env.metrics != nil {
		env.metrics.CanonicalizationsOverall.Inc()
	}

	key := t.PrettyRepresentation(true)
	candidates := env.canonicalTypes[key]

	for i := len(candidates) - 1; i >= 0; i-- {
		candidate := candidates[i]
		if candidate == t {
			continue
		}

		if odrFastPathEligible(t, candidate, env) {
			if env.metrics != nil {
				env.metrics.ODRFastPathHits.Inc()
			}
			propagateCanonicalType(t, candidate, env)
			confirmOrCancelPropagations(true, env)
			return candidate
		}

		var changeKind ChangeKind
		if Equals(t, candidate, &changeKind) {
			propagateCanonicalType(t, candidate, env)
			confirmOrCancelPropagations(true, env)
			return candidate
		}

		// This candidate's comparison may have speculatively propagated a
		// canonical type to sub-types it shares a cycle with; since the
		// comparison it depended on just failed, that propagation must be
		// rolled back before the next candidate is tried (§4.9.4).
		confirmOrCancelPropagations(false, env)
	}

	t.setCanonicalType(t)
	env.canonicalTypes[key] = append(candidates, t)
	confirmOrCancelPropagations(true, env)
	return t
}

// odrKindExcludedFromFastPath reports whether t's dynamic kind is one of
// the kinds the real ODR fast path never applies to: anonymous-or-not,
// typedef, pointer, reference, array, and function types are always
// compared structurally (§4.9.2, I5).
func odrKindExcludedFromFastPath(t Type) bool {
	switch t.(type) {
	case *TypedefType, *PointerType, *ReferenceType, *ArrayType, *FunctionType, *MethodType:
		return true
	}
	return false
}

// odrFastPathEligible implements the real ODR fast path (§4.9.2, I5,
// scenario S1): canonicalize() may accept candidate as t's canonical
// representative without a structural comparison when t and candidate
// share the same non-nil Corpus, are not anonymous, are not a typedef,
// pointer, reference, array, or function type, and have identical size.
// Unions follow EnvironmentConfig.TreatUnionsLikeClassesForODR, the same
// policy useODRFastPath (the separate decl-only fast path in equals.go)
// already honors.
func odrFastPathEligible(t, candidate Type, env *Environment) bool {
	if odrKindExcludedFromFastPath(t) {
		return false
	}
	c1, c2 := corpusOf(t), corpusOf(candidate)
	if c1 == nil || c1 != c2 {
		return false
	}
	if cu, ok := t.(*ClassOrUnionType); ok && cu.IsUnion && !env.config.TreatUnionsLikeClassesForODR {
		return false
	}
	if d, ok := t.(Decl); ok && d.IsAnonymous() {
		return false
	}
	return t.SizeInBits() == candidate.SizeInBits()
}

// propagationState backs the Initial->Propagated(tentative)->
// {Confirmed,Cancelled} state machine (§4.9.2) via typeBase's
// setPropagated/setPropagationConfirmed, driven without a type switch.
type propagationState interface {
	setPropagated(bool)
	setPropagationConfirmed(bool)
}

// recursiveDependent exposes a type's depends-on-recursive-type set
// (§4.9.3's types_with_non_confirmed_propagated_ct_ bookkeeping), backed
// by typeBase's recursiveDeps/clearRecursiveDeps.
type recursiveDependent interface {
	recursiveDeps() map[Type]struct{}
	clearRecursiveDeps()
}

// propagateCanonicalType speculatively assigns candidate as t's
// canonical type. If the match against candidate was found while other
// types were still mid-comparison (scratch.recursiveTypes non-empty),
// the propagation is tentative: t is recorded in
// comparisonScratch.nonConfirmedPropagated with those other types as its
// dependency set, and is only finalized once they resolve (§4.9.3).
func propagateCanonicalType(t, candidate Type, env *Environment) {
	t.setCanonicalType(candidate)
	if ps, ok := t.(propagationState); ok {
		ps.setPropagated(true)
	}

	scratch := env.scratch
	if len(scratch.recursiveTypes) == 0 {
		return
	}
	scratch.nonConfirmedPropagated[t] = struct{}{}
	rd, ok := t.(recursiveDependent)
	if !ok {
		return
	}
	deps := rd.recursiveDeps()
	for root := range scratch.recursiveTypes {
		if root == t {
			continue
		}
		deps[root] = struct{}{}
	}
}

// confirmOrCancelPropagations resolves every type recorded in
// comparisonScratch.nonConfirmedPropagated against the recursive roots
// that just finished their top-level comparison (scratch.recursiveTypes),
// per §4.9.4.
//
// On success, a dependent is confirmed once every root it depends on has
// resolved (its dependency set becomes empty); dependents still waiting
// on another root are left pending. On failure, the transitive closure of
// dependents on the failing roots has its speculative canonical type
// cleared and is cancelled back to Initial, so a later Canonicalize call
// retries it against the (by then more complete) candidate set rather
// than being stuck with a wrong answer.
//
// Either way, the roots themselves are removed from scratch.recursiveTypes:
// their comparison is done.
func confirmOrCancelPropagations(success bool, env *Environment) {
	scratch := env.scratch
	roots := scratch.recursiveTypes
	if len(roots) == 0 {
		return
	}

	if success {
		for dep := range scratch.nonConfirmedPropagated {
			rd, ok := dep.(recursiveDependent)
			if !ok {
				delete(scratch.nonConfirmedPropagated, dep)
				continue
			}
			deps := rd.recursiveDeps()
			for root := range roots {
				delete(deps, root)
			}
			if len(deps) > 0 {
				continue
			}
			if env.metrics != nil {
				env.metrics.PropagationsConfirmed.Inc()
			}
			if ps, ok := dep.(propagationState); ok {
				ps.setPropagationConfirmed(true)
			}
			rd.clearRecursiveDeps()
			delete(scratch.nonConfirmedPropagated, dep)
		}
	} else {
		cancelled := make(map[Type]bool, len(roots))
		for root := range roots {
			cancelled[root] = true
		}
		for changed := true; changed; {
			changed = false
			for dep := range scratch.nonConfirmedPropagated {
				if cancelled[dep] {
					continue
				}
				rd, ok := dep.(recursiveDependent)
				if !ok {
					continue
				}
				deps := rd.recursiveDeps()
				for c := range cancelled {
					if _, dependsOnCancelled := deps[c]; dependsOnCancelled {
						cancelled[dep] = true
						changed = true
						break
					}
				}
			}
		}
		for dep := range cancelled {
			if _, pending := scratch.nonConfirmedPropagated[dep]; !pending {
				continue
			}
			if env.metrics != nil {
				env.metrics.PropagationsCancelled.Inc()
			}
			if ps, ok := dep.(propagationState); ok {
				ps.setPropagated(false)
				ps.setPropagationConfirmed(false)
			}
			dep.setCanonicalType(nil)
			if rd, ok := dep.(recursiveDependent); ok {
				rd.clearRecursiveDeps()
			}
			delete(scratch.nonConfirmedPropagated, dep)
		}
	}

	for root := range roots {
		delete(roots, root)
	}
}

// StripTypedef peels off any leading chain of TypedefType wrappers,
// returning t's first non-typedef underlying type (§6 query API).
func StripTypedef(t Type) Type {
	for {
		td, ok := t.(*TypedefType)
		if !ok || td.Underlying == nil {
			return t
		}
		t = td.Underlying
	}
}

// PeelQualified strips a single leading QualifiedType wrapper, returning
// t unchanged if it isn't qualified (§6 query API).
func PeelQualified(t Type) Type {
	if q, ok := t.(*QualifiedType); ok {
		return q.Underlying
	}
	return t
}

// PeelPointer strips a single leading PointerType wrapper, returning t
// unchanged if it isn't a pointer (§6 query API).
func PeelPointer(t Type) Type {
	if p, ok := t.(*PointerType); ok {
		return p.Pointee
	}
	return t
}

// PeelReference strips a single leading ReferenceType wrapper, returning
// t unchanged if it isn't a reference (§6 query API).
func PeelReference(t Type) Type {
	if r, ok := t.(*ReferenceType); ok {
		return r.Pointee
	}
	return t
}

// PeelArray strips a single leading ArrayType wrapper, returning its
// element type, or t unchanged if it isn't an array (§6 query API).
func PeelArray(t Type) Type {
	if a, ok := t.(*ArrayType); ok {
		return a.Element
	}
	return t
}

// TypeOrVoid returns t, or env's void type sentinel if t is nil (§6
// query API: callers that model "no return type" as nil get a concrete
// Type back).
func TypeOrVoid(t Type, env *Environment) Type {
	if t != nil {
		return t
	}
	return env.GetVoidType()
}

// GetTypeName returns t's name (§6 query API: "get_type_name(t, qualified,
// internal)"). With qualified false and t also a Decl (e.g. a class or
// union), the bare unqualified name is returned instead of the full
// pretty-representation; otherwise this is equivalent to
// t.PrettyRepresentation(internal).
func GetTypeName(t Type, qualified, internal bool) string {
	if t == nil {
		return "void"
	}
	if !qualified {
		if d, ok := t.(Decl); ok {
			return d.Name()
		}
	}
	return t.PrettyRepresentation(internal)
}

// Artifact is satisfied by any node get_pretty_representation can render:
// every Type, plus the Decl kinds (e.g. NamespaceDecl) that define their
// own PrettyRepresentation despite not being a Type (§6 query API:
// "get_pretty_representation(artifact, internal)" is not type-specific).
type Artifact interface {
	PrettyRepresentation(internal bool) string
}

// GetPrettyRepresentation returns artifact's internal or external
// representation depending on internal (§6 query API convenience
// wrapper, kept alongside GetTypeName for symmetry with the source's
// naming). A nil artifact (the "no type" case callers model as a nil
// Type) renders as "void".
func GetPrettyRepresentation(artifact Artifact, internal bool) string {
	if artifact == nil {
		return "void"
	}
	return artifact.PrettyRepresentation(internal)
}

// GetCanonicalTypeFor is an alias for Canonicalize kept for parity with
// the source's get_canonical_type_for name (§6 query API).
func GetCanonicalTypeFor(t Type) Type { return Canonicalize(t) }
