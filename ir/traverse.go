package ir

import "sort"

// Visitor is implemented by anything that wants to walk the IR via
// Traverse. VisitBegin is called on entry to a node; returning false skips
// the node's subtree (but still calls VisitEnd). VisitEnd is called on
// exit; returning false stops the traversal entirely, unwinding through
// every enclosing Traverse call.
//
// Two internal visitors are mandated by §4.8: the environment setter (see
// setEnvironmentVisitor) and the qualified-name setter (see
// qualifiedNameVisitor). internal/treedump implements a third, for
// debugging and test oracles.
type Visitor interface {
	VisitBegin(n Node) bool
	VisitEnd(n Node) bool
}

// Traverse walks n and its sub-type/sub-scope edges depth-first, calling
// v.VisitBegin and v.VisitEnd. It is a no-op if n is nil or already being
// visited higher up the same traversal (cycle break, §4.8).
//
// Traverse returns false if the traversal was stopped early by a visitor
// returning false from VisitEnd; callers that don't care about early
// termination can ignore the result.
func Traverse(n Node, v Visitor) bool {
	if n == nil {
		return true
	}
	if n.isVisiting() {
		return true
	}
	n.setVisiting(true)
	defer n.setVisiting(false)

	if !v.VisitBegin(n) {
		return v.VisitEnd(n)
	}
	if !n.acceptChildren(v) {
		return false
	}
	return v.VisitEnd(n)
}

// setEnvironmentVisitor walks a freshly attached sub-tree and writes the
// environment pointer into every type and decl it reaches, per §4.8. It
// aborts (VisitBegin returns false, acting as "already done") at a node
// already bound to the same Environment, and records an error if a node is
// bound to a different one.
type setEnvironmentVisitor struct {
	env *Environment
	err error
}

func (v *setEnvironmentVisitor) VisitBegin(n Node) bool {
	env, ok := environmentOf(n)
	if !ok {
		return true
	}
	if env == nil {
		setEnvironmentOf(n, v.env)
		return true
	}
	if env == v.env {
		// Already bound to this environment; nothing deeper needs updating.
		return false
	}
	if v.err == nil {
		v.err = &InconsistentEnvironmentError{Node: n}
	}
	return false
}

func (v *setEnvironmentVisitor) VisitEnd(Node) bool {
	return v.err == nil
}

// qualifiedNameVisitor rewrites qualified-parent-name and qualified-name
// for every Decl reachable from the attachment point, so a nested
// namespace or class's members get their qualified names refreshed too,
// not just the decl that was directly reparented (§4.8).
type qualifiedNameVisitor struct{}

func (qualifiedNameVisitor) VisitBegin(n Node) bool {
	if d, ok := n.(Decl); ok {
		updateQualifiedName(d)
	}
	return true
}

func (qualifiedNameVisitor) VisitEnd(Node) bool { return true }

// vtableSortVisitor sorts every reachable ClassOrUnionType's
// VirtualMemberFunctions by VtableOffset, the way a front-end's finalize
// step lays out a vtable once every override has been recorded (§6 front-end
// builder interface).
type vtableSortVisitor struct{}

func (vtableSortVisitor) VisitBegin(n Node) bool {
	if c, ok := n.(*ClassOrUnionType); ok && len(c.VirtualMemberFunctions) > 1 {
		sort.SliceStable(c.VirtualMemberFunctions, func(i, j int) bool {
			return c.VirtualMemberFunctions[i].VtableOffset < c.VirtualMemberFunctions[j].VtableOffset
		})
	}
	return true
}

func (vtableSortVisitor) VisitEnd(Node) bool { return true }
