package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"grindscan/internal/diag"
	"grindscan/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, path, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		path:   color.New(color.Bold),
		note:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.path, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>: <SEV> <CODE>: <title>
// затем строку исходника с номером в гуттере (если файл читается), тело сообщения и Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	n := limit(len(items), opts.Max)
	for i := range n {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, &items[i], fs, opts, pal)
	}
	if n < len(items) {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown\n", len(items)-n)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	header := formatPath(fs, d.Primary.Path, opts.PathMode)
	if d.Primary.Line > 0 {
		header += ":" + strconv.FormatUint(uint64(d.Primary.Line), 10)
	}
	code, title := d.Code.ID(), d.Code.Title()
	if d.Code == diag.UnknownCode && d.Kind != "" {
		code, title = d.Kind, d.Kind
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(header),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(code),
		title,
	)

	writeContext(w, d.Primary, fs, opts.Context, pal)

	for line := range strings.SplitSeq(strings.TrimRight(d.Message, "\n"), "\n") {
		if line == "" {
			fmt.Fprintln(w, pal.gutter.Sprint("   |"))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprint("   |"), line)
	}

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		loc := formatPath(fs, note.Loc.Path, opts.PathMode)
		if note.Loc.Line > 0 {
			loc += ":" + strconv.FormatUint(uint64(note.Loc.Line), 10)
		}
		fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), loc, note.Msg)
	}
}

// writeContext печатает строки вокруг loc.Line; нечитаемый файл просто пропускаем.
func writeContext(w io.Writer, loc diag.Location, fs *source.FileSet, context int8, pal palette) {
	if loc.Line == 0 || loc.Path == "" || fs == nil {
		return
	}
	f, err := fs.Open(loc.Path)
	if err != nil {
		return
	}
	total := f.LineCount()
	if int(loc.Line) > total {
		return
	}
	ctx := max(int(context), 0)
	first := max(int(loc.Line)-ctx, 1)
	last := min(int(loc.Line)+ctx, total)
	width := len(strconv.Itoa(last))
	for n := first; n <= last; n++ {
		marker := " "
		if n == int(loc.Line) {
			marker = ">"
		}
		// #nosec G115 -- n ограничен LineCount
		text := f.GetLine(uint32(n))
		gutter := fmt.Sprintf("%s %*d |", marker, width, n)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprint(gutter), text)
	}
}
