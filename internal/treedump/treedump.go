// Package treedump renders an ir.Node and its subtree as a colorized,
// indented listing, for use in debug logging and test failure output.
package treedump

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/woodard/libabigail-sub000/ir"
)

var kindColor = map[ir.NodeKind]*color.Color{
	ir.NodeKindScalarType:        color.New(color.FgCyan),
	ir.NodeKindQualifiedType:     color.New(color.FgCyan),
	ir.NodeKindPointerType:       color.New(color.FgCyan),
	ir.NodeKindReferenceType:     color.New(color.FgCyan),
	ir.NodeKindArrayType:         color.New(color.FgCyan),
	ir.NodeKindEnumType:          color.New(color.FgYellow),
	ir.NodeKindTypedefType:       color.New(color.FgYellow),
	ir.NodeKindFunctionType:      color.New(color.FgMagenta),
	ir.NodeKindMethodType:        color.New(color.FgMagenta),
	ir.NodeKindClassOrUnionType:  color.New(color.FgGreen),
	ir.NodeKindFunctionTemplate:  color.New(color.FgBlue),
	ir.NodeKindClassTemplate:     color.New(color.FgBlue),
	ir.NodeKindTemplateParameter: color.New(color.FgBlue),
	ir.NodeKindVariableDecl:      color.New(color.FgWhite),
	ir.NodeKindFunctionDecl:      color.New(color.FgWhite),
	ir.NodeKindNamespaceDecl:     color.New(color.FgRed),
	ir.NodeKindScope:             color.New(color.FgHiBlack),
}

// Dump writes a colorized, indented rendering of n and its subtree to w.
// Disable colorization with color.NoColor = true (fatih/color's own
// global switch), e.g. for piping into a file or golden test fixture.
func Dump(w io.Writer, n ir.Node) {
	v := &dumper{w: w}
	ir.Traverse(n, v)
}

// Sdump renders n and its subtree to a string, via Dump.
func Sdump(n ir.Node) string {
	var b strings.Builder
	Dump(&b, n)
	return b.String()
}

type dumper struct {
	w     io.Writer
	depth int
}

func (d *dumper) VisitBegin(n ir.Node) bool {
	c := kindColor[n.Kind()]
	label := describe(n)
	indent := strings.Repeat("  ", d.depth)
	if c != nil {
		fmt.Fprintf(d.w, "%s%s\n", indent, c.Sprint(label))
	} else {
		fmt.Fprintf(d.w, "%s%s\n", indent, label)
	}
	d.depth++
	return true
}

func (d *dumper) VisitEnd(ir.Node) bool {
	d.depth--
	return true
}

// describe renders a one-line summary of n: its kind, and its pretty
// representation when n is a Type, or its qualified name when n is a
// Decl.
func describe(n ir.Node) string {
	switch v := n.(type) {
	case ir.Type:
		return n.Kind().String() + ": " + v.PrettyRepresentation(false)
	case ir.Decl:
		return n.Kind().String() + ": " + v.QualifiedName(false)
	case *ir.Scope:
		if v.IsGlobal() {
			return "scope: <global>"
		}
		return "scope: " + v.QualifiedName(false)
	default:
		return n.Kind().String()
	}
}
