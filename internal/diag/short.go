package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation: "<severity> <code> <path>:<line> <summary>". Paths under
// baseDir are shown relative to it. Entries are sorted deterministically and
// returned as a single string (empty when nothing remains).
func FormatShortDiagnostics(diags []Diagnostic, baseDir string, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendShort(rendered, &diags[i], baseDir, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s", d.Severity, d.Code, d.Path)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		fmt.Fprintf(&b, " %s", d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortDiagnostic, d *Diagnostic, baseDir string, includeNotes bool) []shortDiagnostic {
	out = append(out, shortDiagnostic{
		Severity: d.Severity.Label(),
		Code:     shortCode(d),
		Path:     displayPath(d.Primary.Path, baseDir),
		Line:     d.Primary.Line,
		Message:  Summary(d),
	})
	if includeNotes {
		for _, note := range d.Notes {
			out = append(out, shortDiagnostic{
				Severity: "note",
				Code:     shortCode(d),
				Path:     displayPath(note.Loc.Path, baseDir),
				Line:     note.Loc.Line,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

func shortCode(d *Diagnostic) string {
	if d.Code == UnknownCode && d.Kind != "" {
		return d.Kind
	}
	return d.Code.ID()
}

// Summary returns the first paragraph of the message on one line,
// or the rule title when the message has no text of its own.
func Summary(d *Diagnostic) string {
	head, _, _ := strings.Cut(d.Message, "\n\n")
	if s := sanitizeMessage(head); s != "" {
		return s
	}
	return d.Code.Title()
}

func displayPath(path, baseDir string) string {
	if path == "" {
		return "<unknown>"
	}
	if baseDir != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return normalizePath(path)
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
