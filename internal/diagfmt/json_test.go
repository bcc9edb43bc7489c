package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"grindscan/internal/diag"
	"grindscan/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.MemInvalidWrite, diag.Location{Path: "/p/src/buf.c", Line: 12}, "Invalid write of size 1")
	d = d.WithNote(diag.Location{Path: "/p/src/main.c", Line: 3}, "0x2: main (main.c:3)")
	bag.Add(d)
	bag.Add(diag.New(diag.SevInfo, diag.MemLeakStillReachable, diag.Location{Path: "/p/src/pool.c"}, "still reachable"))

	var buf bytes.Buffer
	opts := JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, source.NewFileSet(), opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("Expected 2 diagnostics, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}

	first := output.Diagnostics[0]
	if first.Severity != "ERROR" || first.Code != "MEM1004" || first.Kind != "InvalidWrite" {
		t.Errorf("unexpected header fields: %+v", first)
	}
	if first.Location.File != "buf.c" || first.Location.Line != 12 {
		t.Errorf("unexpected location: %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location.File != "main.c" {
		t.Errorf("unexpected notes: %+v", first.Notes)
	}

	second := output.Diagnostics[1]
	if second.Location.Line != 0 {
		t.Errorf("unknown line must be omitted, got %d", second.Location.Line)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"line": 0`)) {
		t.Errorf("line 0 must not be serialized:\n%s", buf.String())
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	bag := diag.NewBag(10)
	for _, path := range []string{"a.c", "b.c", "c.c"} {
		d := diag.New(diag.SevError, diag.MemInvalidRead, diag.Location{Path: path, Line: 1}, "read")
		bag.Add(d.WithNote(diag.Location{Path: "main.c", Line: 2}, "frame"))
	}

	out := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("Expected count=2, got %d", out.Count)
	}
	for _, d := range out.Diagnostics {
		if d.Notes != nil {
			t.Errorf("notes must be skipped unless requested: %+v", d.Notes)
		}
	}
}
