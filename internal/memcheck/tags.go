package memcheck

import (
	"encoding/xml"
	"strings"

	"golang.org/x/text/cases"
)

// tag is the closed vocabulary of elements the reader acts on.
type tag uint8

const (
	tagUnknown tag = iota
	tagError
	tagKind
	tagWhat // what, xwhat, auxwhat, ...
	tagText
	tagStack
	tagFrame
	tagIP
	tagObj
	tagFn
	tagDir
	tagFile
	tagLine
)

var tagNames = map[string]tag{
	"error": tagError,
	"kind":  tagKind,
	"text":  tagText,
	"stack": tagStack,
	"frame": tagFrame,
	"ip":    tagIP,
	"obj":   tagObj,
	"fn":    tagFn,
	"dir":   tagDir,
	"file":  tagFile,
	"line":  tagLine,
}

// tagClassifier folds element names before lookup.
// cases.Caser keeps state, so every parser owns its classifier.
type tagClassifier struct {
	fold cases.Caser
}

func newTagClassifier() tagClassifier {
	return tagClassifier{fold: cases.Fold()}
}

func (c tagClassifier) classify(name xml.Name) tag {
	local := c.fold.String(name.Local)
	if t, ok := tagNames[local]; ok {
		return t
	}
	if strings.Contains(local, "what") {
		return tagWhat
	}
	return tagUnknown
}
