package diffutil

import "testing"

func TestUnifiedMarksChangedLines(t *testing.T) {
	want := "a\nb\nc\n"
	got := "a\nx\nc\n"

	out := Unified(want, got)
	if out == "" {
		t.Fatal("expected a non-empty diff")
	}
	if !containsLine(out, "- b\n") {
		t.Errorf("diff = %q, want it to mark the removed line", out)
	}
	if !containsLine(out, "+ x\n") {
		t.Errorf("diff = %q, want it to mark the inserted line", out)
	}
}

func TestUnifiedIdenticalInputsNoChangeMarkers(t *testing.T) {
	s := "a\nb\nc\n"
	out := Unified(s, s)
	if containsLine(out, "- ") || containsLine(out, "+ ") {
		t.Errorf("diff of identical input should have no +/- markers, got %q", out)
	}
}

func containsLine(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
