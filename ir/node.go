// Package ir implements the intermediate representation of a native ABI
// corpus: types, declarations, symbols, scopes, and the canonicalization
// and structural-equality engine that makes cross-type comparisons cheap.
//
// The package has no file or network I/O and no wire format. It is meant
// to be populated by a front-end (ELF/DWARF, CTF, or an XML deserializer,
// none of which live here), and consumed by a diff engine (which also
// lives elsewhere).
package ir

// NodeKind identifies the concrete kind of a Node. It exists because Go
// has no per-type virtual dispatch the way the C++ original's
// ir_node_visitor does; callers that need to switch on kind (the colorized
// tree dump, test oracles) use Kind() instead of a type switch chain.
type NodeKind int

const (
	NodeKindInvalid NodeKind = iota

	// Types.
	NodeKindScalarType
	NodeKindQualifiedType
	NodeKindPointerType
	NodeKindReferenceType
	NodeKindArrayType
	NodeKindEnumType
	NodeKindTypedefType
	NodeKindFunctionType
	NodeKindMethodType
	NodeKindClassOrUnionType
	NodeKindFunctionTemplate
	NodeKindClassTemplate
	NodeKindTemplateParameter

	// Decls.
	NodeKindVariableDecl
	NodeKindFunctionDecl
	NodeKindNamespaceDecl

	// Scope.
	NodeKindScope
)

// String returns a human-readable name for k, used by internal/treedump
// and error messages.
func (k NodeKind) String() string {
	switch k {
	case NodeKindScalarType:
		return "scalar"
	case NodeKindQualifiedType:
		return "qualified"
	case NodeKindPointerType:
		return "pointer"
	case NodeKindReferenceType:
		return "reference"
	case NodeKindArrayType:
		return "array"
	case NodeKindEnumType:
		return "enum"
	case NodeKindTypedefType:
		return "typedef"
	case NodeKindFunctionType:
		return "function"
	case NodeKindMethodType:
		return "method"
	case NodeKindClassOrUnionType:
		return "class-or-union"
	case NodeKindFunctionTemplate:
		return "function-template"
	case NodeKindClassTemplate:
		return "class-template"
	case NodeKindTemplateParameter:
		return "template-parameter"
	case NodeKindVariableDecl:
		return "variable"
	case NodeKindFunctionDecl:
		return "function-decl"
	case NodeKindNamespaceDecl:
		return "namespace"
	case NodeKindScope:
		return "scope"
	}
	return "invalid"
}

// Node is implemented by every traversable element of the IR: types,
// decls, and scopes. It underlies the Traversal component (§4.8).
type Node interface {
	Kind() NodeKind

	// isVisiting/setVisiting implement the "visiting" reentrancy flag
	// mandated by §4.8: Traverse is a no-op when re-entered on a node
	// for which isVisiting() is already true, breaking cycles in the
	// type and scope graphs.
	isVisiting() bool
	setVisiting(bool)

	// acceptChildren visits n's immediate children with v, returning
	// false if the traversal should stop (a visitor asked to stop, or
	// a child subtree asked to stop). It is called by Traverse between
	// VisitBegin and VisitEnd.
	acceptChildren(v Visitor) bool
}

// visitState is embedded by every concrete Node to provide the "visiting"
// reentrancy flag without repeating its bookkeeping in every kind.
type visitState struct {
	visiting bool
}

func (s *visitState) isVisiting() bool   { return s.visiting }
func (s *visitState) setVisiting(b bool) { s.visiting = b }
