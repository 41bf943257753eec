package ir

import "testing"

func TestLocationZeroValueIsAbsent(t *testing.T) {
	var l Location
	if l.IsValid() {
		t.Error("zero Location should not be valid")
	}
}

func TestLocationCreateExpandRoundTrip(t *testing.T) {
	env := NewEnvironment()
	l := env.CreateLocation("widget.h", 42, 7)

	if !l.IsValid() {
		t.Fatal("a created location should be valid")
	}

	file, line, col, ok := env.ExpandLocation(l)
	if !ok {
		t.Fatal("ExpandLocation should succeed for a handle this Environment created")
	}
	if file != "widget.h" || line != 42 || col != 7 {
		t.Errorf("expanded = (%q, %d, %d), want (widget.h, 42, 7)", file, line, col)
	}
}

func TestLocationCreateInternsIdenticalTriples(t *testing.T) {
	env := NewEnvironment()
	l1 := env.CreateLocation("widget.h", 1, 1)
	l2 := env.CreateLocation("widget.h", 1, 1)
	if l1 != l2 {
		t.Error("creating the same (file, line, column) twice should return the same handle")
	}
}

func TestExpandLocationUnknownHandle(t *testing.T) {
	env := NewEnvironment()
	_, _, _, ok := env.ExpandLocation(Location(999))
	if ok {
		t.Error("expanding a handle never created by this Environment should fail")
	}
}
