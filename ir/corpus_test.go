package ir

import "testing"

func TestTranslationUnitLookupTypeFallsBackThroughNestedScope(t *testing.T) {
	env := NewEnvironment()
	tu := NewTranslationUnit(env, "widget.c")

	ns := NewNamespaceDecl("ns")
	if err := tu.AddDecl(ns); err != nil {
		t.Fatalf("AddDecl(ns): %v", err)
	}

	class := NewClassOrUnionType(env, "Widget", false)
	if err := AddDeclToScope(class, ns.NamespaceScope); err != nil {
		t.Fatalf("AddDeclToScope(class): %v", err)
	}

	// class was added directly to ns's scope rather than through
	// tu.AddDecl, so it isn't indexed in typesByName; resolution must fall
	// back to walking the scope hierarchy from GlobalScope.
	got := tu.LookupTypeInTranslationUnit("ns::Widget")
	if got != Type(class) {
		t.Errorf("LookupTypeInTranslationUnit() = %v, want %v", got, class)
	}
}

func TestTranslationUnitTypeNamesIndexesAddDeclOrder(t *testing.T) {
	env := NewEnvironment()
	tu := NewTranslationUnit(env, "widget.c")

	first := NewClassOrUnionType(env, "First", false)
	second := NewClassOrUnionType(env, "Second", false)
	if err := tu.AddDecl(first); err != nil {
		t.Fatalf("AddDecl(first): %v", err)
	}
	if err := tu.AddDecl(second); err != nil {
		t.Fatalf("AddDecl(second): %v", err)
	}

	if got := tu.LookupTypeInTranslationUnit("First"); got != Type(first) {
		t.Errorf("LookupTypeInTranslationUnit(First) = %v, want %v", got, first)
	}

	want := []string{"First", "Second"}
	names := tu.TypeNames()
	if len(names) != len(want) {
		t.Fatalf("TypeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("TypeNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCorpusLookupAcrossTranslationUnits(t *testing.T) {
	env := NewEnvironment()
	corpus := NewCorpus(env, "libwidget.so")

	tu1 := NewTranslationUnit(env, "a.c")
	tu2 := NewTranslationUnit(env, "b.c")
	corpus.AddTranslationUnit(tu1)
	corpus.AddTranslationUnit(tu2)

	class := NewClassOrUnionType(env, "Widget", false)
	if err := tu2.AddDecl(class); err != nil {
		t.Fatalf("AddDecl: %v", err)
	}

	if got := corpus.LookupType("Widget"); got != Type(class) {
		t.Errorf("Corpus.LookupType() = %v, want %v", got, class)
	}
	if got := corpus.LookupType("DoesNotExist"); got != nil {
		t.Errorf("Corpus.LookupType() for a missing type = %v, want nil", got)
	}
}

func TestTranslationUnitFinalizeSortsVtableByOffset(t *testing.T) {
	env := NewEnvironment()
	tu := NewTranslationUnit(env, "widget.c")

	class := NewClassOrUnionType(env, "Widget", false)
	class.AddMemberFunction(MemberFunction{
		Decl:         &FunctionDecl{},
		IsVirtual:    true,
		VtableOffset: 2,
	})
	class.AddMemberFunction(MemberFunction{
		Decl:         &FunctionDecl{},
		IsVirtual:    true,
		VtableOffset: 0,
	})
	class.AddMemberFunction(MemberFunction{
		Decl:         &FunctionDecl{},
		IsVirtual:    true,
		VtableOffset: 1,
	})
	if err := tu.AddDecl(class); err != nil {
		t.Fatalf("AddDecl: %v", err)
	}

	if tu.IsFinalized() {
		t.Fatal("IsFinalized() = true before Finalize()")
	}
	tu.Finalize()
	if !tu.IsFinalized() {
		t.Fatal("IsFinalized() = false after Finalize()")
	}

	offsets := make([]int64, len(class.VirtualMemberFunctions))
	for i, m := range class.VirtualMemberFunctions {
		offsets[i] = m.VtableOffset
	}
	want := []int64{0, 1, 2}
	if len(offsets) != len(want) {
		t.Fatalf("VirtualMemberFunctions offsets = %v, want %v", offsets, want)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("VirtualMemberFunctions[%d].VtableOffset = %d, want %d", i, offsets[i], want[i])
		}
	}
}

func TestShouldReuseTypeFromCorpusGroupPrefersFullDefinition(t *testing.T) {
	env := NewEnvironment()
	group := NewCorpusGroup(env)

	declOnlyCorpus := NewCorpus(env, "liba.so")
	tuA := NewTranslationUnit(env, "a.c")
	declOnly := NewClassOrUnionType(env, "Widget", false)
	declOnly.IsDeclarationOnly = true
	_ = tuA.AddDecl(declOnly)
	declOnlyCorpus.AddTranslationUnit(tuA)

	fullCorpus := NewCorpus(env, "libb.so")
	tuB := NewTranslationUnit(env, "b.c")
	full := NewClassOrUnionType(env, "Widget", false)
	_ = tuB.AddDecl(full)
	fullCorpus.AddTranslationUnit(tuB)

	group.AddCorpus(declOnlyCorpus)
	group.AddCorpus(fullCorpus)

	got, ok := group.ShouldReuseTypeFromCorpusGroup("Widget")
	if !ok {
		t.Fatal("expected a reusable definition to be found")
	}
	if got != Type(full) {
		t.Errorf("ShouldReuseTypeFromCorpusGroup() = %v, want the full definition %v", got, full)
	}
}

func TestAddTranslationUnitBindsCorpusToAlreadyIndexedTypes(t *testing.T) {
	env := NewEnvironment()
	tu := NewTranslationUnit(env, "a.c")

	// Added before the translation unit belongs to any Corpus.
	class := NewClassOrUnionType(env, "Widget", false)
	if err := tu.AddDecl(class); err != nil {
		t.Fatalf("AddDecl: %v", err)
	}
	if got := corpusOf(class); got != nil {
		t.Fatalf("corpusOf(class) = %v before AddTranslationUnit, want nil", got)
	}

	corpus := NewCorpus(env, "libwidget.so")
	corpus.AddTranslationUnit(tu)

	if got := corpusOf(class); got != corpus {
		t.Errorf("corpusOf(class) = %v after AddTranslationUnit, want %v", got, corpus)
	}

	// Added after the translation unit already belongs to a Corpus.
	other := NewClassOrUnionType(env, "Gadget", false)
	if err := tu.AddDecl(other); err != nil {
		t.Fatalf("AddDecl(other): %v", err)
	}
	if got := corpusOf(other); got != corpus {
		t.Errorf("corpusOf(other) = %v, want %v", got, corpus)
	}
}

func TestTranslationUnitFinalizeForceConfirmsOutstandingPropagations(t *testing.T) {
	env := NewEnvironment(WithMetrics(NewMetrics(nil)))
	tu := NewTranslationUnit(env, "a.c")

	dep := NewClassOrUnionType(env, "Dep", false)
	root := NewClassOrUnionType(env, "Root", false)
	env.scratch.nonConfirmedPropagated[dep] = struct{}{}
	dep.recursiveDeps()[root] = struct{}{}
	dep.canonicalTypePropagated = true

	tu.Finalize()

	if !dep.propagatedCanonicalTypeConfirmed {
		t.Error("Finalize should force-confirm any propagation still outstanding when the translation unit finishes")
	}
	if len(env.scratch.nonConfirmedPropagated) != 0 {
		t.Error("nonConfirmedPropagated should be empty after Finalize")
	}
}
