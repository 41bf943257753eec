package ir

import (
	"strconv"
	"strings"
)

// Type is implemented by every type-graph node kind (§3.1, §4.4): Scalar,
// Qualified, Pointer, Reference, Array, Enum, Typedef, Function, Method,
// ClassOrUnion, FunctionTemplate, ClassTemplate, and TemplateParameter.
//
// It replaces the source's virtual type hierarchy with a tagged-variant
// interface, per the "Deep inheritance of type kinds" design note: each
// concrete struct embeds typeBase and implements the kind-specific pieces
// (PrettyRepresentation, size/alignment where they aren't simple
// forwarding, and acceptChildren for Traverse).
type Type interface {
	Node
	envHolder

	// SizeInBits returns the type's size in bits. Qualified and Typedef
	// forward to their underlying type (§4.4).
	SizeInBits() uint64

	// AlignInBits returns the type's alignment in bits. Qualified and
	// Typedef forward to their underlying type (§4.4).
	AlignInBits() uint64

	// PrettyRepresentation returns a human-readable (internal=false) or
	// canonicalization-key (internal=true) string form of the type.
	// The internal form differs from the external one only per §4.4:
	// a class's struct/class keyword is normalized to "class", and a
	// qualified type with an empty cv-mask carries the literal prefix
	// "none" so it cannot collide with its own underlying type's key.
	PrettyRepresentation(internal bool) string

	// CanonicalType returns the type's canonical representative, or nil
	// if the type has not yet been canonicalized (§4.1, I1).
	CanonicalType() Type
	setCanonicalType(Type)
}

// typeBase is embedded by every concrete Type and provides the shared
// bookkeeping fields from §3.1: size/alignment, the canonical-type edge,
// and the canonicalization scratch fields (depends-on-recursive-type,
// canonical-type-propagated, propagated-canonical-type-confirmed).
//
// The source keeps a weak pointer alongside a raw hot-path pointer to the
// canonical type (I1); Go's garbage collector tolerates the resulting
// reference cycles (a canonicalized type pointing at itself, or two
// mutually-canonical types pointing at each other) without the shared/weak
// split the source needs to avoid a leak, so typeBase keeps a single
// `canonical` field.
type typeBase struct {
	visitState
	env *Environment

	// corpus is the Corpus this type was added to (via
	// TranslationUnit.AddDecl / Corpus.AddTranslationUnit), or nil for a
	// type that isn't (yet) part of one. Canonicalize's ODR fast path
	// (§4.9.2, I5) only fires between two types that share a non-nil
	// Corpus.
	corpus *Corpus

	sizeInBits  uint64
	alignInBits uint64

	canonical Type

	recursiveDependencies            map[Type]struct{}
	canonicalTypePropagated          bool
	propagatedCanonicalTypeConfirmed bool

	internalRepr      string
	internalReprValid bool
	externalRepr      string
	externalReprValid bool
}

func (t *typeBase) environment() *Environment    { return t.env }
func (t *typeBase) setEnvironment(e *Environment) { t.env = e }

func (t *typeBase) corpusOf() *Corpus   { return t.corpus }
func (t *typeBase) setCorpus(c *Corpus) { t.corpus = c }

func (t *typeBase) SizeInBits() uint64  { return t.sizeInBits }
func (t *typeBase) AlignInBits() uint64 { return t.alignInBits }

// SetSizeInBits sets the type's size in bits directly, for kinds (notably
// ClassOrUnionType) whose layout isn't known from a single constructor
// argument (§4.4).
func (t *typeBase) SetSizeInBits(bits uint64) { t.sizeInBits = bits }

// SetAlignInBits sets the type's alignment in bits directly (§4.4).
func (t *typeBase) SetAlignInBits(bits uint64) { t.alignInBits = bits }

func (t *typeBase) CanonicalType() Type     { return t.canonical }
func (t *typeBase) setCanonicalType(c Type) { t.canonical = c }

// setPropagated and setPropagationConfirmed back the
// Initial->Propagated(tentative)->{Confirmed,Cancelled} state machine
// described in §4.9.2; promoted onto every concrete Type via typeBase so
// canonicalize.go can drive the state machine through the unexported
// propagationState interface without a type switch.
func (t *typeBase) setPropagated(b bool)           { t.canonicalTypePropagated = b }
func (t *typeBase) setPropagationConfirmed(b bool) { t.propagatedCanonicalTypeConfirmed = b }

// recursiveDeps returns (lazily allocating) the set of in-progress
// recursive root types this type's speculative canonical-type
// propagation depends on (§4.9.3's depends-on-recursive-type set).
func (t *typeBase) recursiveDeps() map[Type]struct{} {
	if t.recursiveDependencies == nil {
		t.recursiveDependencies = make(map[Type]struct{})
	}
	return t.recursiveDependencies
}

func (t *typeBase) clearRecursiveDeps() { t.recursiveDependencies = nil }

// invalidateRepr clears the cached pretty-representation strings. Caches
// are invalidated only before canonicalization; once canonicalized, the
// cache is authoritative (§4.4).
func (t *typeBase) invalidateRepr() {
	t.internalReprValid = false
	t.externalReprValid = false
}

// reprCache returns the cached representation for the given form if
// valid, else runs compute, caches, and returns the result. Callers pass
// their own compute closure since each kind's representation differs.
func reprCache(valid *bool, cache *string, compute func() string) string {
	if *valid {
		return *cache
	}
	*cache = compute()
	*valid = true
	return *cache
}

// ScalarKind distinguishes the built-in scalar families (§3.1).
type ScalarKind int

const (
	ScalarVoid ScalarKind = iota
	ScalarBool
	ScalarChar
	ScalarInt
	ScalarFloat
	// ScalarVariadic is the Environment's variadic-parameter sentinel
	// type, the type of a trailing "..." Function parameter.
	ScalarVariadic
)

// ScalarModifier is a bitmask of the integral-type modifiers from §3.1.
type ScalarModifier uint8

const (
	ModSigned ScalarModifier = 1 << iota
	ModUnsigned
	ModShort
	ModLong
	ModLongLong
)

func (m ScalarModifier) has(f ScalarModifier) bool { return m&f != 0 }

// IntegralDescriptor fully describes a scalar type: its family plus any
// signedness/width modifiers (§3.1 "derived from an integral-type
// descriptor with modifiers").
type IntegralDescriptor struct {
	Kind      ScalarKind
	Modifiers ScalarModifier
	// BitWidth is the scalar's width in bits (e.g. 32 for int, 64 for
	// double); 0 for void.
	BitWidth uint64
}

// ScalarType represents a built-in scalar: integral, floating-point,
// void, bool, or char, per §3.1.
type ScalarType struct {
	typeBase
	Descriptor IntegralDescriptor
}

func NewScalarType(env *Environment, d IntegralDescriptor) *ScalarType {
	t := &ScalarType{Descriptor: d}
	t.env = env
	t.sizeInBits = d.BitWidth
	t.alignInBits = d.BitWidth
	return t
}

func (t *ScalarType) Kind() NodeKind { return NodeKindScalarType }

func (t *ScalarType) acceptChildren(Visitor) bool { return true }

func (t *ScalarType) PrettyRepresentation(bool) string {
	return reprCache(&t.internalReprValid, &t.internalRepr, func() string {
		d := t.Descriptor
		switch d.Kind {
		case ScalarVoid:
			return "void"
		case ScalarVariadic:
			return "..."
		case ScalarBool:
			return "bool"
		case ScalarChar:
			name := "char"
			if d.Modifiers.has(ModSigned) {
				name = "signed char"
			} else if d.Modifiers.has(ModUnsigned) {
				name = "unsigned char"
			}
			return name
		case ScalarFloat:
			if d.BitWidth == 32 {
				return "float"
			}
			if d.BitWidth == 128 {
				return "long double"
			}
			return "double"
		case ScalarInt:
			var parts []string
			if d.Modifiers.has(ModUnsigned) {
				parts = append(parts, "unsigned")
			} else if d.Modifiers.has(ModSigned) {
				parts = append(parts, "signed")
			}
			switch {
			case d.Modifiers.has(ModLongLong):
				parts = append(parts, "long", "long")
			case d.Modifiers.has(ModLong):
				parts = append(parts, "long")
			case d.Modifiers.has(ModShort):
				parts = append(parts, "short")
			}
			parts = append(parts, "int")
			return strings.Join(parts, " ")
		}
		return "<invalid-scalar>"
	})
}

// CVQualifier is a bitmask of the qualifiers a QualifiedType may carry
// (§3.1: const, volatile, restrict).
type CVQualifier uint8

const (
	CVConst CVQualifier = 1 << iota
	CVVolatile
	CVRestrict
)

// QualifiedType represents a cv/restrict-qualified type wrapping an
// underlying type (§3.1, §4.4).
type QualifiedType struct {
	typeBase
	Underlying Type
	Quals      CVQualifier
}

func NewQualifiedType(env *Environment, underlying Type, quals CVQualifier) *QualifiedType {
	t := &QualifiedType{Underlying: underlying, Quals: quals}
	t.env = env
	return t
}

func (t *QualifiedType) Kind() NodeKind { return NodeKindQualifiedType }

func (t *QualifiedType) acceptChildren(v Visitor) bool {
	return Traverse(t.Underlying, v)
}

// SizeInBits forwards to the underlying type (§4.4).
func (t *QualifiedType) SizeInBits() uint64 {
	if t.Underlying == nil {
		return 0
	}
	return t.Underlying.SizeInBits()
}

// AlignInBits forwards to the underlying type (§4.4).
func (t *QualifiedType) AlignInBits() uint64 {
	if t.Underlying == nil {
		return 0
	}
	return t.Underlying.AlignInBits()
}

func (t *QualifiedType) PrettyRepresentation(internal bool) string {
	valid, cache := &t.externalReprValid, &t.externalRepr
	if internal {
		valid, cache = &t.internalReprValid, &t.internalRepr
	}
	return reprCache(valid, cache, func() string {
		var tokens []string
		if t.Quals.has(CVRestrict) {
			tokens = append(tokens, "restrict")
		}
		if t.Quals.has(CVConst) {
			tokens = append(tokens, "const")
		}
		if t.Quals.has(CVVolatile) {
			tokens = append(tokens, "volatile")
		}
		underlying := ""
		if t.Underlying != nil {
			underlying = t.Underlying.PrettyRepresentation(internal)
		}
		if len(tokens) == 0 {
			if internal {
				// "none" prefix so a plain underlying type and a
				// qualified-with-no-qualifiers type never collide as
				// canonicalization keys (§4.4).
				return "none " + underlying
			}
			return underlying
		}
		return strings.Join(tokens, " ") + " " + underlying
	})
}

// PointerType represents a pointer to a pointee type (§3.1, §4.4).
type PointerType struct {
	typeBase
	Pointee Type
}

func NewPointerType(env *Environment, pointee Type, sizeInBits uint64) *PointerType {
	t := &PointerType{Pointee: pointee}
	t.env = env
	t.sizeInBits = sizeInBits
	t.alignInBits = sizeInBits
	return t
}

func (t *PointerType) Kind() NodeKind { return NodeKindPointerType }

func (t *PointerType) acceptChildren(v Visitor) bool {
	return Traverse(t.Pointee, v)
}

func (t *PointerType) PrettyRepresentation(internal bool) string {
	valid, cache := &t.externalReprValid, &t.externalRepr
	if internal {
		valid, cache = &t.internalReprValid, &t.internalRepr
	}
	return reprCache(valid, cache, func() string {
		if t.Pointee == nil {
			return "void*"
		}
		return t.Pointee.PrettyRepresentation(internal) + "*"
	})
}

// ReferenceType represents an lvalue or rvalue reference to a pointee type
// (§3.1, §4.4).
type ReferenceType struct {
	typeBase
	Pointee Type
	LValue  bool
}

func NewReferenceType(env *Environment, pointee Type, lvalue bool, sizeInBits uint64) *ReferenceType {
	t := &ReferenceType{Pointee: pointee, LValue: lvalue}
	t.env = env
	t.sizeInBits = sizeInBits
	t.alignInBits = sizeInBits
	return t
}

func (t *ReferenceType) Kind() NodeKind { return NodeKindReferenceType }

func (t *ReferenceType) acceptChildren(v Visitor) bool {
	return Traverse(t.Pointee, v)
}

func (t *ReferenceType) PrettyRepresentation(internal bool) string {
	valid, cache := &t.externalReprValid, &t.externalRepr
	if internal {
		valid, cache = &t.internalReprValid, &t.internalRepr
	}
	return reprCache(valid, cache, func() string {
		suffix := "&&"
		if t.LValue {
			suffix = "&"
		}
		pointee := "void"
		if t.Pointee != nil {
			pointee = t.Pointee.PrettyRepresentation(internal)
		}
		return pointee + suffix
	})
}

// Subrange is one dimension of an ArrayType (§3.1, glossary). A dimension
// is infinite when its upper bound is less than its lower bound.
type Subrange struct {
	Lower int64
	Upper int64
}

// IsInfinite reports whether s represents an unbounded dimension.
func (s Subrange) IsInfinite() bool { return s.Upper < s.Lower }

// Length returns the number of elements along this dimension, or 0 if
// infinite (§8 boundary behaviors).
func (s Subrange) Length() uint64 {
	if s.IsInfinite() {
		return 0
	}
	return uint64(s.Upper-s.Lower) + 1
}

// ArrayType represents a (possibly multi-dimensional) array of an element
// type (§3.1, §4.4).
type ArrayType struct {
	typeBase
	Element   Type
	Subranges []Subrange
}

func NewArrayType(env *Environment, element Type, subranges []Subrange) *ArrayType {
	t := &ArrayType{Element: element, Subranges: subranges}
	t.env = env
	return t
}

func (t *ArrayType) Kind() NodeKind { return NodeKindArrayType }

func (t *ArrayType) acceptChildren(v Visitor) bool {
	return Traverse(t.Element, v)
}

// SizeInBits is element-size x the product of each finite dimension's
// length; an infinite dimension leaves the running product unchanged
// rather than zeroing it (§8 boundary behaviors).
func (t *ArrayType) SizeInBits() uint64 {
	if t.Element == nil {
		return 0
	}
	size := t.Element.SizeInBits()
	for _, sr := range t.Subranges {
		if sr.IsInfinite() {
			continue
		}
		size *= sr.Length()
	}
	return size
}

func (t *ArrayType) AlignInBits() uint64 {
	if t.Element == nil {
		return 0
	}
	return t.Element.AlignInBits()
}

func (t *ArrayType) PrettyRepresentation(internal bool) string {
	valid, cache := &t.externalReprValid, &t.externalRepr
	if internal {
		valid, cache = &t.internalReprValid, &t.internalRepr
	}
	return reprCache(valid, cache, func() string {
		var b strings.Builder
		if t.Element != nil {
			b.WriteString(t.Element.PrettyRepresentation(internal))
		}
		for _, sr := range t.Subranges {
			b.WriteByte('[')
			if sr.IsInfinite() {
				// Infinite dimension: no bound printed.
			} else {
				b.WriteString(strconv.FormatUint(sr.Length(), 10))
			}
			b.WriteByte(']')
		}
		return b.String()
	})
}

// Enumerator is a single {name, value} pair in an EnumType, kept in
// insertion order (§4.4).
type Enumerator struct {
	Name  string
	Value int64
}

// EnumType represents an enumeration over a scalar underlying type
// (§3.1, §8 boundary behaviors: the underlying type must be a scalar).
type EnumType struct {
	typeBase
	Name        string
	Underlying  Type
	Enumerators []Enumerator
}

func NewEnumType(env *Environment, name string, underlying Type, enumerators []Enumerator) *EnumType {
	t := &EnumType{Name: name, Underlying: underlying, Enumerators: enumerators}
	t.env = env
	if underlying != nil {
		t.sizeInBits = underlying.SizeInBits()
		t.alignInBits = underlying.AlignInBits()
	}
	return t
}

func (t *EnumType) Kind() NodeKind { return NodeKindEnumType }

func (t *EnumType) acceptChildren(v Visitor) bool {
	return Traverse(t.Underlying, v)
}

func (t *EnumType) PrettyRepresentation(bool) string {
	return reprCache(&t.internalReprValid, &t.internalRepr, func() string {
		return "enum " + t.Name
	})
}

// TypedefType represents a named alias for an underlying type (§3.1, §4.4).
type TypedefType struct {
	typeBase
	Name       string
	Underlying Type
}

func NewTypedefType(env *Environment, name string, underlying Type) *TypedefType {
	t := &TypedefType{Name: name, Underlying: underlying}
	t.env = env
	return t
}

func (t *TypedefType) Kind() NodeKind { return NodeKindTypedefType }

func (t *TypedefType) acceptChildren(v Visitor) bool {
	return Traverse(t.Underlying, v)
}

// SizeInBits forwards to the underlying type and lazily synchronizes the
// cached value on this node (§4.4).
func (t *TypedefType) SizeInBits() uint64 {
	if t.Underlying != nil {
		t.sizeInBits = t.Underlying.SizeInBits()
	}
	return t.sizeInBits
}

func (t *TypedefType) AlignInBits() uint64 {
	if t.Underlying != nil {
		t.alignInBits = t.Underlying.AlignInBits()
	}
	return t.alignInBits
}

func (t *TypedefType) PrettyRepresentation(bool) string {
	return reprCache(&t.externalReprValid, &t.externalRepr, func() string { return t.Name })
}

// Parameter is one parameter of a FunctionType (§3.1, §4.4); the return
// type is FunctionType.Return. Index is assigned on append: parameter 0 is the implicit `this`
// when the first parameter is marked Artificial, else indices start at 1.
type Parameter struct {
	Index      int
	Type       Type
	Name       string
	Variadic   bool
	Artificial bool
}

// FunctionType represents a function's return type and parameter list
// (§3.1, §4.4). Function types have no syntactic scope and are kept alive
// by their owning TranslationUnit instead.
type FunctionType struct {
	typeBase
	Return     Type
	Parameters []Parameter
}

func NewFunctionType(env *Environment, ret Type, params []Parameter, pointerSizeInBits uint64) *FunctionType {
	t := &FunctionType{Return: ret, Parameters: params}
	t.env = env
	t.sizeInBits = pointerSizeInBits
	t.alignInBits = pointerSizeInBits
	return t
}

func (t *FunctionType) Kind() NodeKind { return NodeKindFunctionType }

func (t *FunctionType) acceptChildren(v Visitor) bool {
	if !Traverse(t.Return, v) {
		return false
	}
	for i := range t.Parameters {
		if !Traverse(t.Parameters[i].Type, v) {
			return false
		}
	}
	return true
}

// AppendParameter appends p to t.Parameters, assigning its Index per
// §4.4: if the first parameter is Artificial, indices begin at 0
// (implicit this); otherwise they begin at 1. A Variadic marker may only
// appear as the final parameter.
func (t *FunctionType) AppendParameter(p Parameter) {
	assertContract(t.CanonicalType() == nil, errMutateCanonical)
	if len(t.Parameters) == 0 {
		if p.Artificial {
			p.Index = 0
		} else {
			p.Index = 1
		}
	} else {
		p.Index = t.Parameters[len(t.Parameters)-1].Index + 1
	}
	t.Parameters = append(t.Parameters, p)
	t.invalidateRepr()
}

func (t *FunctionType) PrettyRepresentation(internal bool) string {
	valid, cache := &t.externalReprValid, &t.externalRepr
	if internal {
		valid, cache = &t.internalReprValid, &t.internalRepr
	}
	return reprCache(valid, cache, func() string {
		var b strings.Builder
		if t.Return != nil {
			b.WriteString(t.Return.PrettyRepresentation(internal))
		} else {
			b.WriteString("void")
		}
		b.WriteString(" (")
		for i, p := range t.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			if p.Variadic {
				b.WriteString("...")
				continue
			}
			if p.Type != nil {
				b.WriteString(p.Type.PrettyRepresentation(internal))
			}
		}
		b.WriteString(")")
		return b.String()
	})
}

// MethodType is a FunctionType with an owning-class weak edge (§3.1,
// §4.4). Equals never follows OwningClass itself, but it compares every
// parameter, including the implicit this and any parameter whose type is
// the owning class; a cycle back into a class already under comparison is
// cut only by Equals' operand stacks.
type MethodType struct {
	FunctionType
	OwningClass *ClassOrUnionType
}

func NewMethodType(env *Environment, ret Type, params []Parameter, owner *ClassOrUnionType, pointerSizeInBits uint64) *MethodType {
	t := &MethodType{FunctionType: FunctionType{Return: ret, Parameters: params}, OwningClass: owner}
	t.env = env
	t.sizeInBits = pointerSizeInBits
	t.alignInBits = pointerSizeInBits
	return t
}

func (t *MethodType) Kind() NodeKind { return NodeKindMethodType }

func (t *MethodType) PrettyRepresentation(internal bool) string {
	owner := ""
	if t.OwningClass != nil {
		owner = t.OwningClass.PrettyRepresentation(internal) + "::"
	}
	return owner + t.FunctionType.PrettyRepresentation(internal)
}
