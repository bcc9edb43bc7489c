package memcheck

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every error caused by a broken report.
var ErrMalformed = errors.New("malformed report")

// Parse reads one report and returns its distinct errors.
// On failure no set is returned.
func Parse(r io.Reader) (*ErrorSet, error) {
	p := newParser(r)
	set, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ParseFile opens path, parses it and closes it again, on success and on failure.
func ParseFile(path string) (set *ErrorSet, err error) {
	// #nosec G304 -- report path is chosen by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			set, err = nil, fmt.Errorf("failed to close report: %w", closeErr)
		}
	}()
	return Parse(f)
}

type parser struct {
	dec  *xml.Decoder
	tags tagClassifier
}

func newParser(r io.Reader) *parser {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	return &parser{dec: dec, tags: newTagClassifier()}
}

// malformed wraps err with ErrMalformed and the current input position.
func (p *parser) malformed(format string, args ...any) error {
	line, col := p.dec.InputPos()
	return fmt.Errorf("%w: %d:%d: %s", ErrMalformed, line, col, fmt.Sprintf(format, args...))
}

// token returns the next token; running out of input inside the document is an error.
func (p *parser) token() (xml.Token, error) {
	tok, err := p.dec.Token()
	if err == io.EOF {
		return nil, p.malformed("unexpected end of report")
	}
	if err != nil {
		return nil, p.malformed("%v", err)
	}
	return tok, nil
}

func (p *parser) skip() error {
	if err := p.dec.Skip(); err != nil {
		if err == io.EOF {
			return p.malformed("unexpected end of report")
		}
		return p.malformed("%v", err)
	}
	return nil
}

func (p *parser) parseDocument() (*ErrorSet, error) {
	// до корневого элемента: пролог, комментарии, пробелы
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, p.malformed("no root element")
		}
		if err != nil {
			return nil, p.malformed("%v", err)
		}
		if _, ok := tok.(xml.StartElement); ok {
			break
		}
	}

	set := NewErrorSet()
	for {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if p.tags.classify(t.Name) != tagError {
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			}
			e, err := p.parseError()
			if err != nil {
				return nil, err
			}
			set.Add(e)
		case xml.EndElement:
			// конец корня; хвост документа не читаем
			return set, nil
		}
	}
}

func (p *parser) parseError() (*Error, error) {
	e := &Error{}
	haveStack := false
	for {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch p.tags.classify(t.Name) {
			case tagKind:
				if e.Kind, err = p.readText(); err != nil {
					return nil, err
				}
			case tagWhat:
				text, ok, err := p.parseWhat()
				if err != nil {
					return nil, err
				}
				if ok {
					e.Text = text
				}
			case tagStack:
				st, err := p.parseStack()
				if err != nil {
					return nil, err
				}
				if haveStack {
					e.Aux = append(e.Aux, st)
				} else {
					e.Stack = st
					haveStack = true
				}
			default:
				if err := p.skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return e, nil
		}
	}
}

// parseWhat returns the content of the first direct <text> child, if any.
func (p *parser) parseWhat() (string, bool, error) {
	var (
		text  string
		found bool
	)
	for {
		tok, err := p.token()
		if err != nil {
			return "", false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !found && p.tags.classify(t.Name) == tagText {
				if text, err = p.readText(); err != nil {
					return "", false, err
				}
				found = true
				continue
			}
			if err := p.skip(); err != nil {
				return "", false, err
			}
		case xml.EndElement:
			return text, found, nil
		}
	}
}

func (p *parser) parseStack() (Stack, error) {
	var st Stack
	for {
		tok, err := p.token()
		if err != nil {
			return Stack{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if p.tags.classify(t.Name) != tagFrame {
				if err := p.skip(); err != nil {
					return Stack{}, err
				}
				continue
			}
			f, err := p.parseFrame()
			if err != nil {
				return Stack{}, err
			}
			st.Frames = append(st.Frames, f)
		case xml.EndElement:
			return st, nil
		}
	}
}

func (p *parser) parseFrame() (Frame, error) {
	f := NewFrame()
	for {
		tok, err := p.token()
		if err != nil {
			return Frame{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			kind := p.tags.classify(t.Name)
			field := frameField(&f, kind)
			if field == nil && kind != tagLine {
				if err := p.skip(); err != nil {
					return Frame{}, err
				}
				continue
			}
			text, err := p.readText()
			if err != nil {
				return Frame{}, err
			}
			if field != nil {
				*field = text
				continue
			}
			line, err := parseLine(text)
			if err != nil {
				return Frame{}, p.malformed("frame line %q: %v", text, err)
			}
			f.Line = line
		case xml.EndElement:
			return f, nil
		}
	}
}

func frameField(f *Frame, t tag) *string {
	switch t {
	case tagIP:
		return &f.IP
	case tagObj:
		return &f.Obj
	case tagFn:
		return &f.Fn
	case tagDir:
		return &f.Dir
	case tagFile:
		return &f.File
	}
	return nil
}

// readText collects character data up to the end of the current element,
// including the text of nested elements.
func (p *parser) readText() (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := p.token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

func parseLine(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 && n != NoLine {
		return 0, fmt.Errorf("negative line number %d", n)
	}
	return n, nil
}
