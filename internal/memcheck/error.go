package memcheck

import (
	"strconv"
	"strings"
)

// Key is the structural identity of an Error: its kind plus its stack.
// Keys are comparable and can be used as map keys.
type Key string

// Error is one defect occurrence from a report.
type Error struct {
	Kind  string
	Text  string
	Stack Stack
	// Aux holds further stacks of the same error (e.g. where a block was
	// allocated). They are not part of the identity.
	Aux []Stack
}

// Key returns the identity of e. Text and Aux never contribute to it.
func (e *Error) Key() Key {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(e.Kind)))
	b.WriteByte(':')
	b.WriteString(e.Kind)
	b.WriteByte('|')
	e.Stack.appendKey(&b)
	return Key(b.String())
}

// Equal reports whether both errors describe the same defect.
func (e *Error) Equal(other *Error) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	return e.Kind == other.Kind && e.Stack.Equal(other.Stack)
}

// String is the display form: the text, a blank line, then the stack.
func (e *Error) String() string {
	return e.Text + "\n\n" + e.Stack.String()
}

// OwnFrame returns the first frame, innermost first, whose directory lies
// under root. The test is a plain string prefix, and a frame with an empty
// directory never matches, even when root is empty too.
func (e *Error) OwnFrame(root string) (Frame, bool) {
	for _, f := range e.Stack.Frames {
		if isInside(f.Dir, root) {
			return f, true
		}
	}
	return Frame{}, false
}

func isInside(dir, root string) bool {
	if dir == "" {
		return false
	}
	return strings.HasPrefix(dir, root)
}
