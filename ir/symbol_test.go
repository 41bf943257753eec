package ir

import "testing"

func newTestSymbol(name string) *Symbol {
	return NewSymbol(0, 8, name, SymbolTypeFunc, SymbolBindingGlobal, true, "")
}

func TestSymbolAliasRing(t *testing.T) {
	main := newTestSymbol("foo")
	alias1 := newTestSymbol("foo_alias1")
	alias2 := newTestSymbol("foo_alias2")

	if main.HasAliases() {
		t.Fatal("a fresh symbol should have no aliases")
	}

	main.AddAlias(alias1)
	main.AddAlias(alias2)

	if !main.HasAliases() {
		t.Fatal("main should have aliases after AddAlias")
	}
	if got, want := main.GetNumberOfAliases(), 2; got != want {
		t.Errorf("GetNumberOfAliases() = %d, want %d", got, want)
	}
	if !alias1.DoesAlias(alias2) {
		t.Error("alias1 and alias2 should alias each other via the shared ring")
	}
	if alias1.GetMainSymbol() != main {
		t.Error("alias1's main symbol should be main")
	}

	// Walking nextAlias from any ring member must visit every other member
	// exactly once before returning to the start (ring invariant).
	seen := map[*Symbol]bool{main: true}
	cur := main.GetNextAlias()
	for i := 0; i < 10 && cur != nil && cur != main; i++ {
		seen[cur] = true
		cur = cur.GetNextAlias()
	}
	if !seen[alias1] || !seen[alias2] {
		t.Error("ring traversal from main did not reach every alias")
	}
}

func TestSymbolAddAliasRejectsNonMain(t *testing.T) {
	SetDebugAssertions(true)
	defer SetDebugAssertions(true)

	main := newTestSymbol("foo")
	alias := newTestSymbol("foo_alias")
	main.AddAlias(alias)

	defer func() {
		if recover() == nil {
			t.Error("expected AddAlias on a non-main symbol to panic")
		}
	}()
	alias.AddAlias(newTestSymbol("foo_alias2"))
}

func TestSymbolIDString(t *testing.T) {
	tests := []struct {
		name             string
		version          string
		versionIsDefault bool
		want             string
	}{
		{"foo", "", false, "foo"},
		{"foo", "GLIBC_2.2.5", false, "foo@GLIBC_2.2.5"},
		{"foo", "GLIBC_2.2.5", true, "foo@@GLIBC_2.2.5"},
	}
	for _, tt := range tests {
		s := &Symbol{Name: tt.name, Version: tt.version, VersionIsDefault: tt.versionIsDefault}
		if got := s.IDString(); got != tt.want {
			t.Errorf("IDString() = %q, want %q", got, tt.want)
		}
	}
}

func TestGetNameAndVersionFromIDStringRoundTrip(t *testing.T) {
	tests := []string{"foo", "foo@GLIBC_2.2.5", "foo@@GLIBC_2.2.5"}
	for _, id := range tests {
		name, version, isDefault := GetNameAndVersionFromIDString(id)
		s := &Symbol{Name: name, Version: version, VersionIsDefault: isDefault}
		if got := s.IDString(); got != id {
			t.Errorf("round trip for %q: got %q", id, got)
		}
	}
}

func TestSymbolRemoveAlias(t *testing.T) {
	main := newTestSymbol("foo")
	alias1 := newTestSymbol("foo_alias1")
	alias2 := newTestSymbol("foo_alias2")
	main.AddAlias(alias1)
	main.AddAlias(alias2)

	if err := main.RemoveAlias(alias1); err != nil {
		t.Fatalf("RemoveAlias: %v", err)
	}
	if !alias1.IsMainSymbol() {
		t.Error("a removed alias should become its own main symbol again")
	}
	if main.GetNumberOfAliases() != 1 {
		t.Errorf("GetNumberOfAliases() = %d, want 1 after removing one of two aliases", main.GetNumberOfAliases())
	}
	if main.DoesAlias(alias1) {
		t.Error("main and the removed alias should no longer alias each other")
	}
	if !main.DoesAlias(alias2) {
		t.Error("main and the remaining alias should still alias each other")
	}
}

func TestSymbolRemoveAliasRejectsUnrelatedSymbol(t *testing.T) {
	main := newTestSymbol("foo")
	unrelated := newTestSymbol("bar")
	if err := main.RemoveAlias(unrelated); err == nil {
		t.Fatal("expected an error removing a symbol that isn't in main's ring")
	}
}

func TestSymbolEqualTextualMatchWithoutAliasing(t *testing.T) {
	main := newTestSymbol("foo")
	other := &Symbol{Name: "foo", Type: SymbolTypeFunc, Binding: SymbolBindingGlobal, IsDefined: true}
	other.mainSymbol = other
	other.nextAlias = other

	if !main.Equal(other) {
		t.Error("two unrelated symbols with the same name/version/visibility should be Equal")
	}
}

func TestSymbolEqualAliasedButDifferentlyNamedSymbolsAreEqual(t *testing.T) {
	main := newTestSymbol("foo")
	alias := newTestSymbol("foo_v1")
	main.AddAlias(alias)

	if !main.Equal(alias) {
		t.Error("symbols that alias each other must be Equal even though their names differ")
	}
	if !alias.Equal(main) {
		t.Error("Equal via aliasing must be symmetric")
	}
}

func TestSymbolEqualDifferentNameNoAliasIsNotEqual(t *testing.T) {
	a := newTestSymbol("foo")
	b := newTestSymbol("bar")

	if a.Equal(b) {
		t.Error("symbols with different names that don't alias should not be Equal")
	}
}

func TestSymbolDoesAliasRequiresMatchingSignature(t *testing.T) {
	main := newTestSymbol("foo")
	alias := newTestSymbol("foo_v1")
	main.AddAlias(alias)

	undefined := NewSymbol(0, 8, "foo", SymbolTypeFunc, SymbolBindingGlobal, false, "")
	if main.DoesAlias(undefined) {
		t.Error("a symbol that differs in IsDefined should not textually match any ring member")
	}

	differentSize := NewSymbol(0, 16, "bar", SymbolTypeObject, SymbolBindingGlobal, true, "")
	main2 := NewSymbol(0, 8, "bar", SymbolTypeObject, SymbolBindingGlobal, true, "")
	if main2.DoesAlias(differentSize) {
		t.Error("variable symbols with different sizes should not textually alias")
	}

	sameSize := NewSymbol(0, 8, "bar", SymbolTypeObject, SymbolBindingGlobal, true, "")
	if !main2.DoesAlias(sameSize) {
		t.Error("variable symbols with matching name, type, definedness, version and size should alias")
	}
}

func TestSymbolIsPublic(t *testing.T) {
	tests := []struct {
		name      string
		binding   SymbolBinding
		isDefined bool
		want      bool
	}{
		{"defined global", SymbolBindingGlobal, true, true},
		{"defined weak", SymbolBindingWeak, true, true},
		{"defined gnu-unique", SymbolBindingGNUUnique, true, true},
		{"defined local", SymbolBindingLocal, true, false},
		{"undefined global", SymbolBindingGlobal, false, false},
	}
	for _, tt := range tests {
		s := &Symbol{Binding: tt.binding, IsDefined: tt.isDefined}
		if got := s.IsPublic(); got != tt.want {
			t.Errorf("%s: IsPublic() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
