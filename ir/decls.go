package ir

// Visibility mirrors ELF/DWARF visibility classes attached to a Decl
// (§3.1).
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityHidden
	VisibilityInternal
	VisibilityProtected
)

// Binding mirrors the storage binding of a Variable or FunctionDecl
// (§4.5); distinct from Symbol's own Binding (§3.1), since a decl can
// exist without ever having been matched to a symbol.
type Binding int

const (
	BindingGlobal Binding = iota
	BindingLocal
	BindingWeakBinding
)

// Decl is the shared contract of every declaration kind: Variable,
// FunctionDecl, NamespaceDecl, and (as a Type that is also a scope)
// ClassOrUnionType (§4.5).
type Decl interface {
	Node
	envHolder

	Name() string
	SetName(string)

	// QualifiedParentName returns the qualified name of d's owning
	// scope, kept consistent with QualifiedName via updateQualifiedName
	// whenever d is (re)parented (§3.1 invariant).
	QualifiedParentName() string

	// QualifiedName returns QualifiedParentName() + "::" + Name(), or
	// just Name() if the owning scope is the translation-unit global
	// scope (§4.5, §8 testable property).
	QualifiedName(internal bool) string

	Location() Location
	SetLocation(Location)

	LinkageName() string
	SetLinkageName(string)

	Visibility() Visibility
	SetVisibility(Visibility)

	Scope() *Scope
	setScope(*Scope)
	setQualifiedParentName(string)

	IsAnonymous() bool
	SetAnonymous(bool)

	IsInPublicSymbolTable() bool
	SetInPublicSymbolTable(bool)
}

// declBase is embedded by every concrete Decl kind and implements the
// shared contract from §3.1/§4.5.
type declBase struct {
	visitState
	env *Environment

	name                 string
	qualifiedParentName  string
	linkageName          string
	visibility           Visibility
	location             Location
	scope                *Scope
	anonymous            bool
	inPublicSymbolTable  bool
}

func (d *declBase) environment() *Environment     { return d.env }
func (d *declBase) setEnvironment(e *Environment) { d.env = e }

func (d *declBase) Name() string     { return d.name }
func (d *declBase) SetName(n string) { d.name = n }

func (d *declBase) QualifiedParentName() string { return d.qualifiedParentName }

func (d *declBase) setQualifiedParentName(p string) { d.qualifiedParentName = p }

func (d *declBase) QualifiedName(bool) string {
	if d.qualifiedParentName == "" {
		return d.name
	}
	return d.qualifiedParentName + "::" + d.name
}

func (d *declBase) Location() Location         { return d.location }
func (d *declBase) SetLocation(l Location)     { d.location = l }
func (d *declBase) LinkageName() string        { return d.linkageName }
func (d *declBase) SetLinkageName(n string)    { d.linkageName = n }
func (d *declBase) Visibility() Visibility     { return d.visibility }
func (d *declBase) SetVisibility(v Visibility) { d.visibility = v }
func (d *declBase) Scope() *Scope              { return d.scope }
func (d *declBase) setScope(s *Scope)          { d.scope = s }
func (d *declBase) IsAnonymous() bool          { return d.anonymous }
func (d *declBase) SetAnonymous(a bool)        { d.anonymous = a }
func (d *declBase) IsInPublicSymbolTable() bool       { return d.inPublicSymbolTable }
func (d *declBase) SetInPublicSymbolTable(b bool)     { d.inPublicSymbolTable = b }

// updateQualifiedName recomputes d's qualified-parent-name from its
// current scope. Called by the qualified-name setter visitor whenever a
// sub-tree is reparented (§4.8).
func updateQualifiedName(d Decl) {
	if sc := d.Scope(); sc != nil {
		d.setQualifiedParentName(sc.QualifiedName(false))
	} else {
		d.setQualifiedParentName("")
	}
}

// Variable represents a data declaration: a global, a data member's decl
// half (paired with DataMember's layout half), or a parameter's named
// declaration when one is needed outside a Parameter struct (§4.5).
type Variable struct {
	declBase
	Type    Type
	Binding Binding
	Symbol  *Symbol
}

func (v *Variable) Kind() NodeKind { return NodeKindVariableDecl }

func (v *Variable) acceptChildren(visitor Visitor) bool {
	return Traverse(v.Type, visitor)
}

// IDString returns the symbol-id if a Symbol is attached, else the
// linkage name if non-empty, else the variable's type's pretty
// representation (§4.5).
func (v *Variable) IDString() string {
	if v.Symbol != nil {
		return v.Symbol.IDString()
	}
	if v.LinkageName() != "" {
		return v.LinkageName()
	}
	if v.Type != nil {
		return v.Type.PrettyRepresentation(false)
	}
	return v.Name()
}

// FunctionDecl represents a function declaration bound to a FunctionType
// or MethodType (§4.5).
type FunctionDecl struct {
	declBase
	Type           Type // *FunctionType or *MethodType
	DeclaredInline bool
	Binding        Binding
	Symbol         *Symbol
}

func (f *FunctionDecl) Kind() NodeKind { return NodeKindFunctionDecl }

func (f *FunctionDecl) acceptChildren(visitor Visitor) bool {
	return Traverse(f.Type, visitor)
}

// IDString returns the symbol-id if a Symbol is attached, else the
// linkage name if non-empty, else the function's type's pretty
// representation (§4.5).
func (f *FunctionDecl) IDString() string {
	if f.Symbol != nil {
		return f.Symbol.IDString()
	}
	if f.LinkageName() != "" {
		return f.LinkageName()
	}
	if f.Type != nil {
		return f.Type.PrettyRepresentation(false)
	}
	return f.Name()
}

// AreAliases reports whether f and other are aliases, i.e. their attached
// symbols alias one another (§4.5).
func (f *FunctionDecl) AreAliases(other *FunctionDecl) bool {
	if f.Symbol == nil || other.Symbol == nil {
		return false
	}
	return f.Symbol.DoesAlias(other.Symbol)
}

// NamespaceDecl is both a Decl and the owner of the Scope it introduces
// (§3.1, §4.5: "Namespaces are scopes").
type NamespaceDecl struct {
	declBase
	NamespaceScope *Scope
}

// NewNamespaceDecl creates a namespace decl along with the Scope it owns.
func NewNamespaceDecl(name string) *NamespaceDecl {
	n := &NamespaceDecl{}
	n.name = name
	n.NamespaceScope = newScope(n)
	return n
}

func (n *NamespaceDecl) Kind() NodeKind { return NodeKindNamespaceDecl }

func (n *NamespaceDecl) acceptChildren(visitor Visitor) bool {
	if n.NamespaceScope == nil {
		return true
	}
	for _, m := range n.NamespaceScope.members {
		if !Traverse(m, visitor) {
			return false
		}
	}
	return true
}

// PrettyRepresentation returns the namespace's pretty representation,
// which prefixes "namespace " (§4.5).
func (n *NamespaceDecl) PrettyRepresentation(internal bool) string {
	return "namespace " + n.QualifiedName(internal)
}
