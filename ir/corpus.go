package ir

import (
	"github.com/coreos/go-semver/semver"

	"github.com/woodard/libabigail-sub000/internal/ordered"
)

// Package describes the distribution package a Corpus or CorpusGroup was
// extracted from (e.g. an RPM or deb), with a proper semantic version.
// ShouldReuseTypeFromCorpusGroup does not consult it.
type Package struct {
	Name    string
	Version semver.Version
	Arch    string
}

// TranslationUnit is the top-level container a front-end populates with
// the Decls found in a single compiled source file (§4.1, §4.7).
type TranslationUnit struct {
	env        *Environment
	corpus     *Corpus
	Path       string
	Language   string
	AddressSize uint8

	GlobalScope *Scope

	// typesByName indexes types reachable from GlobalScope by their
	// qualified name, in declaration order, for LookupTypeInTranslationUnit
	// and for front-ends that need to iterate a translation unit's types in
	// the order they were added rather than by map iteration order (§4.6).
	typesByName *ordered.Map[string, Type]

	finalized bool
}

// NewTranslationUnit creates an empty translation unit bound to env.
func NewTranslationUnit(env *Environment, path string) *TranslationUnit {
	return &TranslationUnit{
		env:         env,
		Path:        path,
		GlobalScope: NewGlobalScope(),
		typesByName: ordered.New[string, Type](),
	}
}

// AddDecl adds d to the translation unit's global scope and, if d is
// also a Type, indexes it for LookupTypeInTranslationUnit and binds it to
// the translation unit's Corpus (if any), so later canonicalization can
// use the ODR fast path (§4.9.2, I5).
func (tu *TranslationUnit) AddDecl(d Decl) error {
	if err := AddDeclToScope(d, tu.GlobalScope); err != nil {
		return err
	}
	if t, ok := d.(Type); ok {
		tu.typesByName.Set(d.QualifiedName(false), t)
		if tu.corpus != nil {
			setCorpusOf(t, tu.corpus)
		}
	}
	return nil
}

// LookupTypeInTranslationUnit resolves a fully-qualified name against
// this translation unit's indexed types and, failing that, against its
// global scope's member hierarchy (§4.6, §6 query API).
func (tu *TranslationUnit) LookupTypeInTranslationUnit(qualifiedName string) Type {
	if t, ok := tu.typesByName.GetOK(qualifiedName); ok {
		return t
	}
	return LookupTypeInScope(FQNToComponents(qualifiedName), tu.GlobalScope)
}

// TypeNames returns the qualified names of every type indexed by this
// translation unit, in the order they were added.
func (tu *TranslationUnit) TypeNames() []string {
	return tu.typesByName.Keys()
}

// Finalize sorts every class's virtual member functions into vtable order
// and marks the translation unit ready for lookup. A front-end calls this
// once after every decl has been added; it is safe to call more than once
// (§6 front-end builder interface: "finalize a translation unit, which
// triggers vtable sort and exposes lookup maps").
func (tu *TranslationUnit) Finalize() {
	Traverse(tu.GlobalScope, vtableSortVisitor{})
	if tu.env != nil {
		tu.env.ForceConfirmPropagations()
	}
	tu.finalized = true
}

// IsFinalized reports whether Finalize has been called on this translation
// unit.
func (tu *TranslationUnit) IsFinalized() bool { return tu.finalized }

// Corpus is the set of translation units extracted from a single binary
// (a shared library or executable), plus the Package it was extracted
// from when known (§4.1, §4.10).
type Corpus struct {
	env              *Environment
	Path             string
	Architecture     string
	Package          *Package
	TranslationUnits []*TranslationUnit
	Symbols          []*Symbol
}

// NewCorpus creates an empty Corpus bound to env.
func NewCorpus(env *Environment, path string) *Corpus {
	return &Corpus{env: env, Path: path}
}

// AddTranslationUnit appends tu to c, binding tu and every type it has
// already indexed to c so Canonicalize's ODR fast path (§4.9.2, I5) can
// recognize them as sharing a Corpus. Types added to tu afterwards are
// bound as they're added, by AddDecl.
func (c *Corpus) AddTranslationUnit(tu *TranslationUnit) {
	c.TranslationUnits = append(c.TranslationUnits, tu)
	tu.corpus = c
	tu.typesByName.All()(func(_ string, t Type) bool {
		setCorpusOf(t, c)
		return true
	})
}

// corpusHolder is implemented by every Type so Canonicalize's ODR fast
// path can read the Corpus a type was indexed into, and AddDecl/
// AddTranslationUnit can set it.
type corpusHolder interface {
	corpusOf() *Corpus
	setCorpus(*Corpus)
}

func setCorpusOf(t Type, c *Corpus) {
	if h, ok := t.(corpusHolder); ok {
		h.setCorpus(c)
	}
}

func corpusOf(t Type) *Corpus {
	h, ok := t.(corpusHolder)
	if !ok {
		return nil
	}
	return h.corpusOf()
}

// LookupType resolves a fully-qualified name against every translation
// unit in the corpus, in order, returning the first match.
func (c *Corpus) LookupType(qualifiedName string) Type {
	for _, tu := range c.TranslationUnits {
		if t := tu.LookupTypeInTranslationUnit(qualifiedName); t != nil {
			return t
		}
	}
	return nil
}

// CorpusGroup bundles Corpora extracted from a related set of binaries
// (e.g. every shared library in one RPM), so that a type defined in one
// corpus's headers and merely declared in another's can be resolved to a
// single definition (§4.10).
type CorpusGroup struct {
	env     *Environment
	Package *Package
	Corpora []*Corpus
}

// NewCorpusGroup creates an empty CorpusGroup bound to env.
func NewCorpusGroup(env *Environment) *CorpusGroup {
	return &CorpusGroup{env: env}
}

// AddCorpus appends c to g.
func (g *CorpusGroup) AddCorpus(c *Corpus) {
	g.Corpora = append(g.Corpora, c)
}

// ShouldReuseTypeFromCorpusGroup reports whether a declaration-only
// ClassOrUnionType named qualifiedName found while processing one
// corpus in the group should instead reuse the full definition already
// found elsewhere in the group, rather than being left
// declaration-only (§4.10).
func (g *CorpusGroup) ShouldReuseTypeFromCorpusGroup(qualifiedName string) (Type, bool) {
	for _, c := range g.Corpora {
		t := c.LookupType(qualifiedName)
		if t == nil {
			continue
		}
		if cu, ok := t.(*ClassOrUnionType); ok && cu.IsDeclarationOnly {
			continue
		}
		return t, true
	}
	return nil, false
}
