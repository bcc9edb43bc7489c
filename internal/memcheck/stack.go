package memcheck

import "strings"

// Stack is a call stack in the order the tool emitted it (innermost first).
type Stack struct {
	Frames []Frame
}

// Len returns the number of frames.
func (s Stack) Len() int {
	return len(s.Frames)
}

// Equal is order-sensitive: the same frames in another order are a different stack.
func (s Stack) Equal(other Stack) bool {
	if len(s.Frames) != len(other.Frames) {
		return false
	}
	for i := range s.Frames {
		if !s.Frames[i].Equal(other.Frames[i]) {
			return false
		}
	}
	return true
}

// String renders one frame per line, each line terminated by '\n'.
func (s Stack) String() string {
	var b strings.Builder
	for _, f := range s.Frames {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (s Stack) appendKey(b *strings.Builder) {
	for _, f := range s.Frames {
		f.appendKey(b)
	}
}
