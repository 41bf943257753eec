package treedump

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/woodard/libabigail-sub000/ir"
)

func TestSdumpRendersKindAndPrettyRepresentation(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	env := ir.NewEnvironment()
	inner := ir.NewScalarType(env, ir.IntegralDescriptor{Kind: ir.ScalarInt, Modifiers: ir.ModSigned, BitWidth: 32})
	ptr := ir.NewPointerType(env, inner, 64)

	out := Sdump(ptr)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "signed int*") {
		t.Errorf("line 0 = %q, want the pointer's pretty representation", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ") {
		t.Errorf("line 1 = %q, want an indented child", lines[1])
	}
	if !strings.Contains(lines[1], "signed int") {
		t.Errorf("line 1 = %q, want the pointee's pretty representation", lines[1])
	}
}

func TestSdumpNamespaceUsesQualifiedName(t *testing.T) {
	color.NoColor = true
	ns := ir.NewNamespaceDecl("std")
	out := Sdump(ns)
	if !strings.Contains(out, "std") {
		t.Errorf("Sdump(ns) = %q, want it to mention the namespace's name", out)
	}
}
