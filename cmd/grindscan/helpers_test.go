package main

import (
	"os"
	"path/filepath"
	"testing"
)

func reportXML(kind, dir string) string {
	return `<?xml version="1.0"?>
<valgrindoutput>
  <error>
    <kind>` + kind + `</kind>
    <xwhat><text>` + kind + ` happened</text></xwhat>
    <stack>
      <frame><ip>0x4C2</ip><obj>/usr/lib/libc.so</obj><fn>free</fn></frame>
      <frame><ip>0x400</ip><fn>work</fn><dir>` + dir + `</dir><file>work.c</file><line>17</line></frame>
    </stack>
  </error>
</valgrindoutput>
`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func baseScanConfig(dir string) scanConfig {
	return scanConfig{
		baseDir:        dir,
		pattern:        "valgrind-reports/valgrind-result-*.xml",
		format:         "short",
		ui:             uiModeOff,
		maxDiagnostics: 100,
		quiet:          true,
	}
}
