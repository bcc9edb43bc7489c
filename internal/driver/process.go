package driver

import (
	"grindscan/internal/memcheck"
)

// Finding is one attributed error: where it happened in the project and what it is.
type Finding struct {
	Path    string
	Line    int // memcheck.NoLine when unknown
	Kind    string
	Message string
	// Stack is the full identity stack, kept for notes; not part of the tuple.
	Stack memcheck.Stack
}

// Process resolves every error of set against root. Errors with no frame
// inside root are dropped without a trace: they belong to libraries or the
// runtime, not to the project.
func Process(set *memcheck.ErrorSet, root string) []Finding {
	if set == nil {
		return nil
	}
	out := make([]Finding, 0, set.Len())
	for _, e := range set.Items() {
		f, ok := e.OwnFrame(root)
		if !ok {
			continue
		}
		out = append(out, Finding{
			Path:    f.Path(),
			Line:    f.Line,
			Kind:    e.Kind,
			Message: e.String(),
			Stack:   e.Stack,
		})
	}
	return out
}
