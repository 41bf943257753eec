package ir

// ChangeKind is a bitfield describing how two structurally-compared
// types differ, beyond the plain bool equals() returns (§4.9.1).
type ChangeKind uint8

const (
	// NoChange means equals found no difference.
	NoChange ChangeKind = 0
	// LocalChange means a and b differ in a property of the node itself
	// (name, size, qualifiers, enumerator values, ...).
	LocalChange ChangeKind = 1 << (iota - 1)
	// SubtypeChange means a and b are locally identical but one of their
	// sub-types (pointee, element, parameter, member, ...) differs.
	SubtypeChange
)

func (c ChangeKind) Has(f ChangeKind) bool { return c&f != 0 }

// Equals reports whether a and b are structurally equivalent, writing
// the kind(s) of difference found into *outChangeKind when non-nil
// (§4.9.1). It is re-entrant on recursive type graphs via the
// Environment's comparisonScratch (§4.9.3): a pair already on the
// left/right operand stacks is treated as equal for the duration of the
// outer comparison, and the types involved are marked recursive so their
// canonical-type propagation (§4.9.2) is deferred rather than confirmed
// immediately.
//
// Comparing types with no Environment attached (environment() == nil)
// falls back to an unguarded recursion with no cycle protection; every
// constructor in this package takes an *Environment for exactly this
// reason, so recursive type graphs in practice are always compared with
// the scratch-backed re-entrancy guard in place.
func Equals(a, b Type, outChangeKind *ChangeKind) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		if outChangeKind != nil {
			*outChangeKind = LocalChange
		}
		return false
	}

	env, _ := environmentOf(a)
	if env == nil {
		env, _ = environmentOf(b)
	}
	if env == nil {
		return equalsUncached(a, b, outChangeKind, nil)
	}

	scratch := env.scratch
	if env.metrics != nil {
		env.metrics.StructuralComparisons.Inc()
	}

	pair := typePair{a, b}
	rpair := typePair{b, a}
	if env.config.EnableComparisonResultCache {
		if r, ok := scratch.results[pair]; ok {
			if env.metrics != nil {
				env.metrics.ComparisonCacheHits.Inc()
			}
			if !r && outChangeKind != nil {
				*outChangeKind = LocalChange
			}
			return r
		}
		if r, ok := scratch.results[rpair]; ok {
			if env.metrics != nil {
				env.metrics.ComparisonCacheHits.Inc()
			}
			if !r && outChangeKind != nil {
				*outChangeKind = LocalChange
			}
			return r
		}
	}

	for i := range scratch.leftOperands {
		if scratch.leftOperands[i] == a && scratch.rightOperands[i] == b {
			scratch.recursiveTypes[a] = struct{}{}
			scratch.recursiveTypes[b] = struct{}{}
			return true
		}
		if scratch.leftOperands[i] == b && scratch.rightOperands[i] == a {
			scratch.recursiveTypes[a] = struct{}{}
			scratch.recursiveTypes[b] = struct{}{}
			return true
		}
	}

	scratch.leftOperands = append(scratch.leftOperands, a)
	scratch.rightOperands = append(scratch.rightOperands, b)
	result := equalsUncached(a, b, outChangeKind, env)
	scratch.leftOperands = scratch.leftOperands[:len(scratch.leftOperands)-1]
	scratch.rightOperands = scratch.rightOperands[:len(scratch.rightOperands)-1]

	_, aRecursive := scratch.recursiveTypes[a]
	_, bRecursive := scratch.recursiveTypes[b]
	// A positive result reached while any recursive comparison is still
	// outstanding rests on the "assume equal" answer given to that
	// in-progress pair, so only negative results are cached in that state.
	if env.config.EnableComparisonResultCache && !aRecursive && !bRecursive &&
		(!result || len(scratch.recursiveTypes) == 0) {
		scratch.results[pair] = result
	}

	return result
}

// equalsUncached performs the actual structural comparison, dispatching
// on dynamic kind. Composite kinds combine a local comparison with a
// recursive call into Equals for each sub-type, OR-ing SubtypeChange into
// *outChangeKind when a sub-type differs but the node itself doesn't
// (§4.9.1).
func equalsUncached(a, b Type, out *ChangeKind, env *Environment) bool {
	if a.Kind() != b.Kind() {
		setChange(out, LocalChange)
		return false
	}

	switch av := a.(type) {
	case *ScalarType:
		bv := b.(*ScalarType)
		eq := av.Descriptor == bv.Descriptor
		if !eq {
			setChange(out, LocalChange)
		}
		return eq

	case *QualifiedType:
		bv := b.(*QualifiedType)
		eq := true
		if av.Quals != bv.Quals {
			setChange(out, LocalChange)
			eq = false
		}
		if !Equals(av.Underlying, bv.Underlying, out) {
			eq = false
		}
		return eq

	case *PointerType:
		bv := b.(*PointerType)
		return Equals(av.Pointee, bv.Pointee, out)

	case *ReferenceType:
		bv := b.(*ReferenceType)
		eq := true
		if av.LValue != bv.LValue {
			setChange(out, LocalChange)
			eq = false
		}
		if !Equals(av.Pointee, bv.Pointee, out) {
			eq = false
		}
		return eq

	case *ArrayType:
		bv := b.(*ArrayType)
		eq := true
		if len(av.Subranges) != len(bv.Subranges) {
			setChange(out, LocalChange)
			eq = false
		} else {
			for i := range av.Subranges {
				if av.Subranges[i] != bv.Subranges[i] {
					setChange(out, LocalChange)
					eq = false
					break
				}
			}
		}
		if !Equals(av.Element, bv.Element, out) {
			eq = false
		}
		return eq

	case *EnumType:
		bv := b.(*EnumType)
		eq := true
		if av.Name != bv.Name || len(av.Enumerators) != len(bv.Enumerators) {
			setChange(out, LocalChange)
			eq = false
		} else {
			for i := range av.Enumerators {
				if av.Enumerators[i] != bv.Enumerators[i] {
					setChange(out, LocalChange)
					eq = false
					break
				}
			}
		}
		if !Equals(av.Underlying, bv.Underlying, out) {
			eq = false
		}
		return eq

	case *TypedefType:
		bv := b.(*TypedefType)
		eq := true
		if av.Name != bv.Name {
			setChange(out, LocalChange)
			eq = false
		}
		if !Equals(av.Underlying, bv.Underlying, out) {
			eq = false
		}
		return eq

	case *FunctionType:
		bv := b.(*FunctionType)
		return equalsFunctionType(av, bv, out)
	case *MethodType:
		bv := b.(*MethodType)
		// OwningClass is a weak edge excluded from recursion (§4.9.1): a
		// method on class C never re-enters C's own comparison through its
		// own member-function list.
		return equalsFunctionType(&av.FunctionType, &bv.FunctionType, out)

	case *ClassOrUnionType:
		bv := b.(*ClassOrUnionType)
		return equalsClassOrUnion(av, bv, out, env)

	case *TemplateParameter:
		bv := b.(*TemplateParameter)
		eq := av.ParamKind == bv.ParamKind && av.Name == bv.Name
		if !eq {
			setChange(out, LocalChange)
		}
		if !Equals(av.Underlying, bv.Underlying, out) {
			eq = false
		}
		return eq

	case *FunctionTemplate:
		bv := b.(*FunctionTemplate)
		eq := len(av.Parameters) == len(bv.Parameters)
		if !eq {
			setChange(out, LocalChange)
		}
		if !Equals(av.Pattern, bv.Pattern, out) {
			eq = false
		}
		return eq

	case *ClassTemplate:
		bv := b.(*ClassTemplate)
		eq := len(av.Parameters) == len(bv.Parameters)
		if !eq {
			setChange(out, LocalChange)
		}
		if !Equals(av.Pattern, bv.Pattern, out) {
			eq = false
		}
		return eq
	}
	return false
}

func setChange(out *ChangeKind, k ChangeKind) {
	if out != nil {
		*out |= k
	}
}

func equalsFunctionType(a, b *FunctionType, out *ChangeKind) bool {
	eq := true
	if len(a.Parameters) != len(b.Parameters) {
		setChange(out, LocalChange)
		eq = false
	}
	if !Equals(a.Return, b.Return, out) {
		eq = false
	}
	for i := 0; i < len(a.Parameters) && i < len(b.Parameters); i++ {
		if a.Parameters[i].Variadic != b.Parameters[i].Variadic {
			setChange(out, LocalChange)
			eq = false
		}
		if !Equals(a.Parameters[i].Type, b.Parameters[i].Type, out) {
			eq = false
		}
	}
	return eq
}

// equalsClassOrUnion compares two classes/unions locally (kind, name,
// base list, member lists by shape) and recursively (each base, data
// member type, and member function type), honoring the ODR fast path's
// sibling policy for unions via
// EnvironmentConfig.TreatUnionsLikeClassesForODR (§4.9.2, I5).
func equalsClassOrUnion(a, b *ClassOrUnionType, out *ChangeKind, env *Environment) bool {
	eq := true
	if a.IsUnion != b.IsUnion || a.name != b.name {
		setChange(out, LocalChange)
		eq = false
	}

	// The ODR fast path must run before any member-list comparison: a
	// declaration-only side legitimately has empty Bases/DataMembers/
	// MemberFunctions, and that is exactly the case the fast path exists
	// to accept without penalizing it as a local change (§4.9.2, I5).
	if env != nil {
		if _, declOnly := useODRFastPath(a, b, env); declOnly {
			if env.metrics != nil {
				env.metrics.ODRFastPathHits.Inc()
			}
			return eq
		}
	}

	if len(a.Bases) != len(b.Bases) ||
		len(a.DataMembers) != len(b.DataMembers) ||
		len(a.MemberFunctions) != len(b.MemberFunctions) {
		setChange(out, LocalChange)
		eq = false
	}

	for i := 0; i < len(a.Bases) && i < len(b.Bases); i++ {
		if a.Bases[i].Access != b.Bases[i].Access || a.Bases[i].IsVirtual != b.Bases[i].IsVirtual {
			setChange(out, LocalChange)
			eq = false
		}
		if !Equals(a.Bases[i].BaseClass, b.Bases[i].BaseClass, out) {
			eq = false
		}
	}
	for i := 0; i < len(a.DataMembers) && i < len(b.DataMembers); i++ {
		am, bm := a.DataMembers[i], b.DataMembers[i]
		if am.OffsetInBits != bm.OffsetInBits || am.Access != bm.Access {
			setChange(out, SubtypeChange)
			eq = false
		}
		var at, bt Type
		if am.Decl != nil {
			at = am.Decl.Type
		}
		if bm.Decl != nil {
			bt = bm.Decl.Type
		}
		if !Equals(at, bt, out) {
			eq = false
		}
	}
	for i := 0; i < len(a.MemberFunctions) && i < len(b.MemberFunctions); i++ {
		am, bm := a.MemberFunctions[i], b.MemberFunctions[i]
		if am.IsVirtual != bm.IsVirtual || am.IsConst != bm.IsConst {
			setChange(out, SubtypeChange)
			eq = false
		}
		var at, bt Type
		if am.Decl != nil {
			at = am.Decl.Type
		}
		if bm.Decl != nil {
			bt = bm.Decl.Type
		}
		if !Equals(at, bt, out) {
			eq = false
		}
	}
	return eq
}

// useODRFastPath reports whether a's and b's ODR context (same
// qualified name, one or both declaration-only) lets canonicalize()
// accept the pair without a structural comparison (§4.9.2, I5).
// Disabled for unions unless EnvironmentConfig.TreatUnionsLikeClassesForODR
// is set.
func useODRFastPath(a, b *ClassOrUnionType, env *Environment) (reason string, ok bool) {
	if a.IsUnion && !env.config.TreatUnionsLikeClassesForODR {
		return "", false
	}
	if a.QualifiedName(true) != b.QualifiedName(true) {
		return "", false
	}
	if a.IsDeclarationOnly || b.IsDeclarationOnly {
		return "odr-fast-path", true
	}
	return "", false
}
