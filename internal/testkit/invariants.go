// Package testkit holds invariant checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"grindscan/internal/diag"
	"grindscan/internal/source"
)

// CheckDiagnostics verifies what every rendered bag must satisfy:
// 1) items are in Bag.Sort order
// 2) no two items share code, kind, location and message
// 3) known codes carry a severity, unknown codes carry the Valgrind kind
// 4) a primary line inside a readable file does not exceed its line count
//
// fs may be nil; then line bounds are not checked.
func CheckDiagnostics(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil {
		return fmt.Errorf("nil bag")
	}
	items := bag.Items()
	seen := make(map[string]int, len(items))
	for i, d := range items {
		if i > 0 && less(d, items[i-1]) {
			return fmt.Errorf("item %d (%s %s) sorts before item %d", i, d.Code.ID(), d.Primary, i-1)
		}

		key := fmt.Sprintf("%s\x00%s\x00%s\x00%s", d.Code.ID(), d.Kind, d.Primary, d.Message)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("items %d and %d are duplicates (%s at %s)", prev, i, d.Code.ID(), d.Primary)
		}
		seen[key] = i

		if d.Code == diag.UnknownCode && d.Kind == "" {
			return fmt.Errorf("item %d: unknown code without kind", i)
		}
		if d.Severity.String() == "UNKNOWN" {
			return fmt.Errorf("item %d: invalid severity %d", i, d.Severity)
		}

		if fs == nil || d.Primary.Line == 0 || d.Primary.Path == "" {
			continue
		}
		f, err := fs.Open(d.Primary.Path)
		if err != nil {
			continue // исходника может не быть на этой машине
		}
		line, err := safecast.Conv[int](d.Primary.Line)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if n := f.LineCount(); line > n {
			return fmt.Errorf("item %d: line %d past end of %s (%d lines)", i, line, d.Primary.Path, n)
		}
	}
	return nil
}

// less mirrors the ordering of diag.Bag.Sort.
func less(a, b diag.Diagnostic) bool {
	if a.Primary.Path != b.Primary.Path {
		return a.Primary.Path < b.Primary.Path
	}
	if a.Primary.Line != b.Primary.Line {
		return a.Primary.Line < b.Primary.Line
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Message < b.Message
}
