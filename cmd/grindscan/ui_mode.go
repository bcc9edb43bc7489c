package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui setting for the progress view.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.TrimSpace(strings.ToLower(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// enabled decides whether the progress view runs. The view draws on stderr,
// so auto looks at stderr and leaves stdout to the report.
func (m uiMode) enabled(quiet bool, stderrIsTTY func() bool) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return !quiet && stderrIsTTY()
}

func shouldUseTUI(mode uiMode, quiet bool) bool {
	return mode.enabled(quiet, func() bool { return isTerminal(os.Stderr) })
}
