package diag

import "strconv"

// Location points at a line of a file. Line 0 means the line is unknown.
type Location struct {
	Path string
	Line uint32
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.Path
	}
	return l.Path + ":" + strconv.FormatUint(uint64(l.Line), 10)
}

// IsZero reports whether the location carries no path.
func (l Location) IsZero() bool {
	return l.Path == ""
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Kind     string
	Message  string
	Primary  Location
	Notes    []Note
}

// New builds a diagnostic for a catalog code.
func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Kind:     code.Kind(),
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}

// RuleKey returns the key a rule catalog is searched by.
func (d Diagnostic) RuleKey() string {
	if d.Kind != "" {
		return d.Kind
	}
	return d.Code.Kind()
}
