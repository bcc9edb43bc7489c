package memcheck

import (
	"path/filepath"
	"strconv"
	"strings"
)

// NoLine marks a frame without line information.
const NoLine = -1

// Frame is one entry of a Valgrind stack trace.
type Frame struct {
	IP   string
	Obj  string
	Fn   string
	Dir  string
	File string
	Line int
}

// NewFrame returns a frame with every field at its "unknown" default.
func NewFrame() Frame {
	return Frame{IP: "?", Fn: "?", Line: NoLine}
}

// LocationKnown reports whether the frame points at a file or at least an object.
func (f Frame) LocationKnown() bool {
	return f.File != "" || f.Obj != ""
}

// Path joins the declaring directory and file name.
func (f Frame) Path() string {
	if f.File == "" {
		return f.Dir
	}
	if f.Dir == "" {
		return f.File
	}
	// без Clean: каталог из отчёта берётся как есть
	return strings.TrimSuffix(f.Dir, string(filepath.Separator)) + string(filepath.Separator) + f.File
}

// Equal compares frames by location and function. IP is not compared:
// the same defect is reported at different addresses from run to run.
func (f Frame) Equal(other Frame) bool {
	return f.Obj == other.Obj &&
		f.Fn == other.Fn &&
		f.Dir == other.Dir &&
		f.File == other.File &&
		f.Line == other.Line
}

func (f Frame) String() string {
	var b strings.Builder
	b.WriteString(f.IP)
	b.WriteString(": ")
	b.WriteString(f.Fn)
	if !f.LocationKnown() {
		return b.String()
	}
	b.WriteString(" (")
	if f.File == "" {
		b.WriteString("in ")
		b.WriteString(f.Obj)
	} else {
		b.WriteString(f.File)
		b.WriteByte(':')
		if f.Line != NoLine {
			b.WriteString(strconv.Itoa(f.Line))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// appendKey writes the identity fields length-prefixed, so that no two
// distinct frames produce the same bytes.
func (f Frame) appendKey(b *strings.Builder) {
	for _, s := range [...]string{f.Obj, f.Fn, f.Dir, f.File} {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	b.WriteString(strconv.Itoa(f.Line))
	b.WriteByte(';')
}
