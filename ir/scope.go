package ir

import (
	"strings"

	"github.com/woodard/libabigail-sub000/internal/visitor"
)

// Scope owns an ordered list of member Decls plus a filtered list of
// sub-scopes, and is introduced by a namespace, a class/union, or
// the translation unit itself (the global scope, which has a nil owner)
// (§4.6).
type Scope struct {
	visitState
	env *Environment

	// owner is the Decl that introduces this scope (a *NamespaceDecl, or
	// a Type that is also a Decl-like scope owner such as
	// *ClassOrUnionType). Nil for the translation-unit global scope.
	owner interface {
		Name() string
		QualifiedName(internal bool) string
	}

	parent    *Scope
	members   []Decl
	subScopes []*Scope
}

func newScope(owner interface {
	Name() string
	QualifiedName(internal bool) string
}) *Scope {
	return &Scope{owner: owner}
}

// NewGlobalScope creates the translation-unit global scope.
func NewGlobalScope() *Scope {
	return &Scope{}
}

func (s *Scope) Kind() NodeKind { return NodeKindScope }

func (s *Scope) acceptChildren(v Visitor) bool {
	for _, m := range s.members {
		if !Traverse(m, v) {
			return false
		}
	}
	return true
}

func (s *Scope) environment() *Environment { return s.env }
func (s *Scope) setEnvironment(e *Environment) {
	s.env = e
}

// QualifiedName returns the scope's own qualified name, i.e. the
// qualified name of its owning decl, or "" for the global scope
// (§4.5/§4.6).
func (s *Scope) QualifiedName(internal bool) string {
	if s == nil || s.owner == nil {
		return ""
	}
	return s.owner.QualifiedName(internal)
}

// IsGlobal reports whether s is the translation-unit global scope.
func (s *Scope) IsGlobal() bool { return s.owner == nil }

// Members returns s's member Decls in declaration order. The returned
// slice must not be mutated by the caller.
func (s *Scope) Members() []Decl { return s.members }

// SubScopes returns the scopes introduced by s's members, in the order
// those members were added.
func (s *Scope) SubScopes() []*Scope { return s.subScopes }

// scopeIntroducedBy returns the Scope a Decl introduces, if any: a
// *NamespaceDecl introduces NamespaceScope and a *ClassOrUnionType
// introduces MemberScope; any other Decl introduces none.
func scopeIntroducedBy(d Decl) *Scope {
	switch v := d.(type) {
	case *NamespaceDecl:
		return v.NamespaceScope
	case *ClassOrUnionType:
		return v.MemberScope
	}
	return nil
}

// AddDeclToScope appends d to s's member list, sets d's scope pointer,
// and recomputes qualified names and environment bindings across d's
// subtree. It fails if d already belongs to a scope (§4.6 invariant:
// "every member Decl has exactly one owning scope").
func AddDeclToScope(d Decl, s *Scope) error {
	if d.Scope() != nil {
		return errDeclAlreadyScoped
	}
	return insertDeclIntoScope(d, len(s.members), s)
}

// InsertDeclIntoScope inserts d into s's member list at position before,
// preserving relative order of the remaining members (§4.6).
func InsertDeclIntoScope(d Decl, before int, s *Scope) error {
	if d.Scope() != nil {
		return errDeclAlreadyScoped
	}
	return insertDeclIntoScope(d, before, s)
}

func insertDeclIntoScope(d Decl, at int, s *Scope) error {
	if at < 0 || at > len(s.members) {
		at = len(s.members)
	}
	s.members = append(s.members, nil)
	copy(s.members[at+1:], s.members[at:])
	s.members[at] = d
	d.setScope(s)

	if sub := scopeIntroducedBy(d); sub != nil {
		sub.parent = s
		s.subScopes = append(s.subScopes, sub)
	}

	Traverse(d, qualifiedNameVisitor{})

	if s.env != nil {
		ev := &setEnvironmentVisitor{env: s.env}
		Traverse(d, ev)
		return ev.err
	}
	return nil
}

// RemoveDeclFromScope detaches d from its owning scope, clearing its
// scope pointer. It is a no-op if d has no scope.
func RemoveDeclFromScope(d Decl) {
	s := d.Scope()
	if s == nil {
		return
	}
	idx, ok := findIteratorForMember(s, d)
	if !ok {
		return
	}
	s.members = append(s.members[:idx], s.members[idx+1:]...)
	if sub := scopeIntroducedBy(d); sub != nil {
		for i, ss := range s.subScopes {
			if ss == sub {
				s.subScopes = append(s.subScopes[:i], s.subScopes[i+1:]...)
				break
			}
		}
	}
	d.setScope(nil)
}

// findIteratorForMember returns the index of d within s's member list, by
// pointer identity (§4.6).
func findIteratorForMember(s *Scope, d Decl) (int, bool) {
	for i, m := range s.members {
		if m == d {
			return i, true
		}
	}
	return 0, false
}

// LookupTypeInScope resolves the dotted/"::"-joined qualified-name
// components against s's direct members and, transitively, the
// sub-scopes those members introduce (§4.6). Components must already be
// split via FQNToComponents.
//
// A fresh per-call reentrancy guard (internal/visitor.Visitor[*Scope])
// stops the walk from revisiting a scope it has already entered, in case
// a pathological or partially-built scope graph ever contains a cycle;
// a well-formed namespace/class hierarchy never needs it.
func LookupTypeInScope(components []string, s *Scope) Type {
	guard := visitor.New(func(*Scope) bool { return true })
	return lookupTypeInScope(components, s, guard)
}

func lookupTypeInScope(components []string, s *Scope, guard visitor.Visitor[*Scope]) Type {
	if len(components) == 0 || s == nil || guard.Visited(s) {
		return nil
	}
	guard.Yield(s)

	head, rest := components[0], components[1:]
	for _, m := range s.members {
		named, ok := m.(interface{ Name() string })
		if !ok || named.Name() != head {
			continue
		}
		if len(rest) == 0 {
			if t, ok := m.(Type); ok {
				if isSkippedDeclOnlyClass(t) {
					continue
				}
				return t
			}
			continue
		}
		if sub := scopeIntroducedBy(m); sub != nil {
			if t := lookupTypeInScope(rest, sub, guard); t != nil {
				return t
			}
		}
	}
	return nil
}

// isSkippedDeclOnlyClass reports whether t is a forward-declared class or
// union with no known definition, which name resolution must skip over
// rather than resolve to (§4.6: "decl-only classes without a definition
// are skipped during name resolution").
func isSkippedDeclOnlyClass(t Type) bool {
	cu, ok := t.(*ClassOrUnionType)
	return ok && cu.IsDeclarationOnly && cu.Definition == nil
}

// FQNToComponents splits a fully-qualified name on "::" while respecting
// template-argument nesting, so that
// "std::vector<foo::bar, 2>::iterator" splits into
// ["std", "vector<foo::bar, 2>", "iterator"] rather than breaking inside
// the template argument list (§4.6 scenario S5).
func FQNToComponents(fqn string) []string {
	var components []string
	depth := 0
	start := 0
	for i := 0; i < len(fqn); i++ {
		switch fqn[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && i+1 < len(fqn) && fqn[i+1] == ':' {
				components = append(components, fqn[start:i])
				i++
				start = i + 1
			}
		}
	}
	components = append(components, fqn[start:])
	return components
}

// ComponentsToTypeName rejoins components produced by FQNToComponents
// back into a single fully-qualified name.
func ComponentsToTypeName(components []string) string {
	return strings.Join(components, "::")
}
