package ir

import "strings"

// AccessSpecifier is the C++-style access level of a base class or
// member (§3.1).
type AccessSpecifier int

const (
	AccessPrivate AccessSpecifier = iota
	AccessProtected
	AccessPublic
)

// Base describes one base-class edge of a ClassOrUnionType (§3.1).
type Base struct {
	BaseClass    *ClassOrUnionType
	OffsetInBits int64
	Access       AccessSpecifier
	IsVirtual    bool
}

// ContextRel is the access/staticness pair shared by every kind of class
// member (§3.1).
type ContextRel struct {
	Access   AccessSpecifier
	IsStatic bool
}

// DataMember pairs a Variable's decl half with the layout information
// that only makes sense in the context of a particular class (§3.1).
type DataMember struct {
	ContextRel
	Decl         *Variable
	IsLaidOut    bool
	OffsetInBits int64
}

// MemberFunction pairs a FunctionDecl's decl half with the
// class-membership information the source tracks separately from the
// free-function case (§3.1).
type MemberFunction struct {
	ContextRel
	Decl         *FunctionDecl
	IsVirtual    bool
	VtableOffset int64
	IsCtor       bool
	IsDtor       bool
	IsConst      bool
}

// ClassOrUnionType represents a class, struct, or union (§3.1, §4.4). It
// is both a Type (participates in canonicalization and equality) and a
// Decl (has a qualified name and belongs to an enclosing Scope), and it
// introduces the Scope its members and nested types are looked up
// through (§4.6).
type ClassOrUnionType struct {
	typeBase

	name                string
	qualifiedParentName string
	linkageName         string
	visibility          Visibility
	location            Location
	scope               *Scope
	anonymous           bool
	inPublicSymbolTable bool

	IsUnion bool

	Bases                   []Base
	DataMembers             []DataMember
	MemberFunctions         []MemberFunction
	VirtualMemberFunctions  []MemberFunction
	MemberTypes             []Type
	MemberFunctionTemplates []*FunctionTemplate
	MemberClassTemplates    []*ClassTemplate

	IsDeclarationOnly bool
	Definition        *ClassOrUnionType

	// MemberScope is the scope introduced by this class/union, used for
	// qualified-name resolution of nested types (§4.6). It is kept in
	// sync with MemberTypes by AddMemberType.
	MemberScope *Scope
}

// NewClassOrUnionType creates an empty class or union named name. Use
// IsUnion to mark it a union; the zero value is a class/struct.
func NewClassOrUnionType(env *Environment, name string, isUnion bool) *ClassOrUnionType {
	c := &ClassOrUnionType{name: name, IsUnion: isUnion}
	c.env = env
	c.MemberScope = newScope(c)
	return c
}

func (c *ClassOrUnionType) Kind() NodeKind { return NodeKindClassOrUnionType }

func (c *ClassOrUnionType) acceptChildren(v Visitor) bool {
	for _, b := range c.Bases {
		if !Traverse(b.BaseClass, v) {
			return false
		}
	}
	for _, m := range c.DataMembers {
		if !Traverse(m.Decl, v) {
			return false
		}
	}
	for _, m := range c.MemberFunctions {
		if !Traverse(m.Decl, v) {
			return false
		}
	}
	for _, t := range c.MemberTypes {
		if !Traverse(t, v) {
			return false
		}
	}
	return true
}

// Name returns the class/union's unqualified name.
func (c *ClassOrUnionType) Name() string     { return c.name }
func (c *ClassOrUnionType) SetName(n string) { c.name = n }

func (c *ClassOrUnionType) QualifiedParentName() string         { return c.qualifiedParentName }
func (c *ClassOrUnionType) setQualifiedParentName(p string) { c.qualifiedParentName = p }

func (c *ClassOrUnionType) QualifiedName(bool) string {
	if c.qualifiedParentName == "" {
		return c.name
	}
	return c.qualifiedParentName + "::" + c.name
}

func (c *ClassOrUnionType) Location() Location     { return c.location }
func (c *ClassOrUnionType) SetLocation(l Location) { c.location = l }
func (c *ClassOrUnionType) LinkageName() string    { return c.linkageName }
func (c *ClassOrUnionType) SetLinkageName(n string) { c.linkageName = n }
func (c *ClassOrUnionType) Visibility() Visibility { return c.visibility }
func (c *ClassOrUnionType) SetVisibility(v Visibility) { c.visibility = v }
func (c *ClassOrUnionType) Scope() *Scope           { return c.scope }
func (c *ClassOrUnionType) setScope(s *Scope)       { c.scope = s }
func (c *ClassOrUnionType) IsAnonymous() bool       { return c.anonymous }
func (c *ClassOrUnionType) SetAnonymous(a bool)     { c.anonymous = a }
func (c *ClassOrUnionType) IsInPublicSymbolTable() bool   { return c.inPublicSymbolTable }
func (c *ClassOrUnionType) SetInPublicSymbolTable(b bool) { c.inPublicSymbolTable = b }

// AddDataMember appends m to c.DataMembers and, if m.Decl is non-nil,
// adds its decl half to c.MemberScope so it participates in member
// lookup (§4.6).
func (c *ClassOrUnionType) AddDataMember(m DataMember) {
	assertContract(c.CanonicalType() == nil, errMutateCanonical)
	c.DataMembers = append(c.DataMembers, m)
	if m.Decl != nil {
		_ = AddDeclToScope(m.Decl, c.MemberScope)
	}
	c.invalidateRepr()
}

// AddMemberFunction appends m to c.MemberFunctions (and to
// c.VirtualMemberFunctions when m.IsVirtual), and adds its decl half to
// c.MemberScope.
func (c *ClassOrUnionType) AddMemberFunction(m MemberFunction) {
	assertContract(c.CanonicalType() == nil, errMutateCanonical)
	c.MemberFunctions = append(c.MemberFunctions, m)
	if m.IsVirtual {
		c.VirtualMemberFunctions = append(c.VirtualMemberFunctions, m)
	}
	if m.Decl != nil {
		_ = AddDeclToScope(m.Decl, c.MemberScope)
	}
	c.invalidateRepr()
}

// AddMemberType appends t to c.MemberTypes and, if t is also a Decl
// (ClassOrUnionType, or a future member typedef/enum decl wrapper), adds
// it to c.MemberScope so nested-type lookup (§4.6 scenario S5) can find
// it.
func (c *ClassOrUnionType) AddMemberType(t Type) {
	assertContract(c.CanonicalType() == nil, errMutateCanonical)
	c.MemberTypes = append(c.MemberTypes, t)
	if d, ok := t.(Decl); ok {
		_ = AddDeclToScope(d, c.MemberScope)
	}
	c.invalidateRepr()
}

func (c *ClassOrUnionType) PrettyRepresentation(internal bool) string {
	valid, cache := &c.externalReprValid, &c.externalRepr
	if internal {
		valid, cache = &c.internalReprValid, &c.internalRepr
	}
	return reprCache(valid, cache, func() string {
		kw := "class"
		if c.IsUnion {
			kw = "union"
		}
		return kw + " " + c.QualifiedName(internal)
	})
}

// TemplateParameterKind distinguishes the four template-parameter shapes
// the source models (§3.1).
type TemplateParameterKind int

const (
	TemplateParamType TemplateParameterKind = iota
	TemplateParamNonType
	TemplateParamTemplateTemplate
	TemplateParamComposition
)

// TemplateParameter is a single parameter of a FunctionTemplate or
// ClassTemplate (§3.1). It is itself a Type so it can stand in for its
// own kind within a template's pattern before substitution.
type TemplateParameter struct {
	typeBase
	ParamKind  TemplateParameterKind
	Name       string
	Underlying Type
}

func NewTemplateParameter(env *Environment, kind TemplateParameterKind, name string, underlying Type) *TemplateParameter {
	t := &TemplateParameter{ParamKind: kind, Name: name, Underlying: underlying}
	t.env = env
	return t
}

func (t *TemplateParameter) Kind() NodeKind { return NodeKindTemplateParameter }

func (t *TemplateParameter) acceptChildren(v Visitor) bool {
	return Traverse(t.Underlying, v)
}

func (t *TemplateParameter) PrettyRepresentation(bool) string {
	return reprCache(&t.internalReprValid, &t.internalRepr, func() string { return t.Name })
}

// FunctionTemplate represents an uninstantiated function template: a
// pattern FunctionType plus the template parameters it is generic over
// (§3.1).
type FunctionTemplate struct {
	typeBase
	Pattern    *FunctionType
	Parameters []*TemplateParameter
}

func NewFunctionTemplate(env *Environment, pattern *FunctionType, params []*TemplateParameter) *FunctionTemplate {
	t := &FunctionTemplate{Pattern: pattern, Parameters: params}
	t.env = env
	return t
}

func (t *FunctionTemplate) Kind() NodeKind { return NodeKindFunctionTemplate }

func (t *FunctionTemplate) acceptChildren(v Visitor) bool {
	if !Traverse(t.Pattern, v) {
		return false
	}
	for _, p := range t.Parameters {
		if !Traverse(p, v) {
			return false
		}
	}
	return true
}

func (t *FunctionTemplate) PrettyRepresentation(internal bool) string {
	return reprCache(&t.internalReprValid, &t.internalRepr, func() string {
		var names []string
		for _, p := range t.Parameters {
			names = append(names, p.Name)
		}
		pattern := ""
		if t.Pattern != nil {
			pattern = t.Pattern.PrettyRepresentation(internal)
		}
		return "template<" + strings.Join(names, ", ") + "> " + pattern
	})
}

// ClassTemplate represents an uninstantiated class template: a pattern
// ClassOrUnionType plus the template parameters it is generic over
// (§3.1).
type ClassTemplate struct {
	typeBase
	Pattern    *ClassOrUnionType
	Parameters []*TemplateParameter
}

func NewClassTemplate(env *Environment, pattern *ClassOrUnionType, params []*TemplateParameter) *ClassTemplate {
	t := &ClassTemplate{Pattern: pattern, Parameters: params}
	t.env = env
	return t
}

func (t *ClassTemplate) Kind() NodeKind { return NodeKindClassTemplate }

func (t *ClassTemplate) acceptChildren(v Visitor) bool {
	if !Traverse(t.Pattern, v) {
		return false
	}
	for _, p := range t.Parameters {
		if !Traverse(p, v) {
			return false
		}
	}
	return true
}

func (t *ClassTemplate) PrettyRepresentation(internal bool) string {
	return reprCache(&t.internalReprValid, &t.internalRepr, func() string {
		var names []string
		for _, p := range t.Parameters {
			names = append(names, p.Name)
		}
		pattern := ""
		if t.Pattern != nil {
			pattern = t.Pattern.PrettyRepresentation(internal)
		}
		return "template<" + strings.Join(names, ", ") + "> " + pattern
	})
}
