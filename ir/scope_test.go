package ir

import (
	"reflect"
	"testing"
)

func TestAddDeclToScopeUpdatesQualifiedName(t *testing.T) {
	ns := NewNamespaceDecl("std")
	v := &Variable{}
	v.SetName("npos")

	if err := AddDeclToScope(v, ns.NamespaceScope); err != nil {
		t.Fatalf("AddDeclToScope: %v", err)
	}
	if got, want := v.QualifiedName(false), "std::npos"; got != want {
		t.Errorf("QualifiedName() = %q, want %q", got, want)
	}
}

func TestAddDeclToScopeRejectsAlreadyScoped(t *testing.T) {
	ns1 := NewNamespaceDecl("a")
	ns2 := NewNamespaceDecl("b")
	v := &Variable{}
	v.SetName("x")

	if err := AddDeclToScope(v, ns1.NamespaceScope); err != nil {
		t.Fatalf("first AddDeclToScope: %v", err)
	}
	if err := AddDeclToScope(v, ns2.NamespaceScope); err == nil {
		t.Fatal("expected an error re-scoping an already-scoped decl")
	}
}

func TestRemoveDeclFromScope(t *testing.T) {
	ns := NewNamespaceDecl("a")
	v := &Variable{}
	v.SetName("x")
	_ = AddDeclToScope(v, ns.NamespaceScope)

	RemoveDeclFromScope(v)

	if v.Scope() != nil {
		t.Error("Scope() should be nil after RemoveDeclFromScope")
	}
	if len(ns.NamespaceScope.Members()) != 0 {
		t.Error("scope should have no members after removing its only one")
	}
}

func TestGlobalScopeQualifiedNameIsJustName(t *testing.T) {
	global := NewGlobalScope()
	v := &Variable{}
	v.SetName("errno")
	_ = AddDeclToScope(v, global)

	if got, want := v.QualifiedName(false), "errno"; got != want {
		t.Errorf("QualifiedName() = %q, want %q (no :: prefix at global scope)", got, want)
	}
}

func TestFQNToComponentsRespectsTemplateNesting(t *testing.T) {
	fqn := "std::vector<foo::bar, 2>::iterator"
	want := []string{"std", "vector<foo::bar, 2>", "iterator"}

	got := FQNToComponents(fqn)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FQNToComponents(%q) = %v, want %v", fqn, got, want)
	}

	if rejoined := ComponentsToTypeName(got); rejoined != fqn {
		t.Errorf("ComponentsToTypeName(FQNToComponents(%q)) = %q, want original back", fqn, rejoined)
	}
}

func TestFQNToComponentsNoNesting(t *testing.T) {
	got := FQNToComponents("a::b::c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FQNToComponents() = %v, want %v", got, want)
	}
}

func TestLookupTypeInScopeThroughNestedClassMemberType(t *testing.T) {
	env := NewEnvironment()
	global := NewGlobalScope()

	outer := NewClassOrUnionType(env, "Outer", false)
	_ = AddDeclToScope(outer, global)

	inner := NewClassOrUnionType(env, "Inner", false)
	outer.AddMemberType(inner)

	got := LookupTypeInScope(FQNToComponents("Outer::Inner"), global)
	if got != Type(inner) {
		t.Errorf("LookupTypeInScope() = %v, want %v (nested member type)", got, inner)
	}
}

func TestLookupTypeInScopeThroughNestedNamespace(t *testing.T) {
	env := NewEnvironment()
	global := NewGlobalScope()

	outer := NewNamespaceDecl("outer")
	_ = AddDeclToScope(outer, global)

	inner := NewClassOrUnionType(env, "Widget", false)
	_ = AddDeclToScope(inner, outer.NamespaceScope)

	got := LookupTypeInScope(FQNToComponents("outer::Widget"), global)
	if got != Type(inner) {
		t.Errorf("LookupTypeInScope() = %v, want %v", got, inner)
	}
}

func TestLookupTypeInScopeSkipsDeclOnlyClassWithoutDefinition(t *testing.T) {
	env := NewEnvironment()
	global := NewGlobalScope()

	declOnly := NewClassOrUnionType(env, "Widget", false)
	declOnly.IsDeclarationOnly = true
	_ = AddDeclToScope(declOnly, global)

	if got := LookupTypeInScope(FQNToComponents("Widget"), global); got != nil {
		t.Errorf("LookupTypeInScope() = %v, want nil: a decl-only class with no definition must be skipped", got)
	}
}

func TestLookupTypeInScopeResolvesDeclOnlyClassWithKnownDefinition(t *testing.T) {
	env := NewEnvironment()
	global := NewGlobalScope()

	full := NewClassOrUnionType(env, "Widget", false)

	declOnly := NewClassOrUnionType(env, "Widget", false)
	declOnly.IsDeclarationOnly = true
	declOnly.Definition = full
	_ = AddDeclToScope(declOnly, global)

	got := LookupTypeInScope(FQNToComponents("Widget"), global)
	if got != Type(declOnly) {
		t.Errorf("LookupTypeInScope() = %v, want %v: a decl-only class with a known Definition is still resolvable", got, declOnly)
	}
}
