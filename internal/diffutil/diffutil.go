// Package diffutil renders a readable diff between two multi-line
// strings, for test failure messages comparing tree-dump or pretty-
// representation golden output.
package diffutil

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Unified returns a line-oriented diff between got and want, formatted
// for a test failure message: "- want" / "+ got" markers in front of
// each changed line, unchanged lines printed bare for context.
func Unified(want, got string) string {
	dmp := diffmatchpatch.New()
	wantChars, gotChars, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffMain(wantChars, gotChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
