package driver

import (
	"os"
	"path/filepath"
	"testing"
)

// reportXML builds a small memcheck report with one error per (kind, dir) pair.
func reportXML(errors ...[2]string) string {
	out := "<?xml version=\"1.0\"?>\n<valgrindoutput>\n  <protocolversion>4</protocolversion>\n"
	for _, e := range errors {
		out += `  <error>
    <unique>0x1</unique>
    <kind>` + e[0] + `</kind>
    <what>ignored</what>
    <xwhat><text>` + e[0] + ` happened</text></xwhat>
    <stack>
      <frame><ip>0x4C2</ip><obj>/usr/lib/libc.so</obj><fn>free</fn></frame>
      <frame><ip>0x400</ip><fn>work</fn><dir>` + e[1] + `</dir><file>work.c</file><line>17</line></frame>
      <frame><ip>0x401</ip><fn>main</fn><dir>` + e[1] + `</dir><file>main.c</file><line>4</line></frame>
    </stack>
  </error>
`
	}
	return out + "</valgrindoutput>\n"
}

func writeReport(t *testing.T, dir, name, content string) string {
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
