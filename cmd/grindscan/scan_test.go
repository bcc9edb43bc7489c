package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestScanOnceShort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "valgrind-reports/valgrind-result-1.xml", reportXML("InvalidFree", dir))
	// дубликат в другом отчёте
	writeFile(t, dir, "valgrind-reports/valgrind-result-2.xml", reportXML("InvalidFree", dir))
	writeFile(t, dir, "valgrind-reports/valgrind-result-3.xml", reportXML("InvalidRead", "/usr/src/glibc"))

	var out, errOut bytes.Buffer
	code, err := scanOnce(context.Background(), baseScanConfig(dir), &out, &errOut)
	if err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	want := "error MEM1001 work.c:17 InvalidFree happened"
	if got := out.String(); got != want {
		t.Fatalf("output:\n%q\nwant:\n%q", got, want)
	}
}

func TestScanOnceCleanRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "valgrind-reports/valgrind-result-1.xml", reportXML("InvalidRead", "/opt/elsewhere"))

	var out, errOut bytes.Buffer
	code, err := scanOnce(context.Background(), baseScanConfig(dir), &out, &errOut)
	if err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestScanOnceMalformedReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "valgrind-reports/valgrind-result-1.xml", "<valgrindoutput><error>")
	writeFile(t, dir, "valgrind-reports/valgrind-result-2.xml", reportXML("Leak_PossiblyLost", dir))

	cfg := baseScanConfig(dir)
	cfg.format = "json"
	var out, errOut bytes.Buffer
	code, err := scanOnce(context.Background(), cfg, &out, &errOut)
	if err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	var payload struct {
		Diagnostics []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"diagnostics"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if payload.Count != 2 {
		t.Fatalf("count = %d, want 2: %s", payload.Count, out.String())
	}
	codes := map[string]bool{}
	for _, d := range payload.Diagnostics {
		codes[d.Code] = true
	}
	if !codes["REP4001"] || !codes["MEM1014"] {
		t.Fatalf("codes = %v", codes)
	}
}

func TestScanOnceNoWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "valgrind-reports/valgrind-result-1.xml", reportXML("Leak_PossiblyLost", dir))

	cfg := baseScanConfig(dir)
	cfg.noWarnings = true
	var out, errOut bytes.Buffer
	code, err := scanOnce(context.Background(), cfg, &out, &errOut)
	if err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if code != 0 || out.Len() != 0 {
		t.Fatalf("code=%d output=%q", code, out.String())
	}
}

func TestScanOnceUnknownKindWarns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "valgrind-reports/valgrind-result-1.xml", reportXML("MadeUpKind", dir))

	cfg := baseScanConfig(dir)
	cfg.quiet = false
	cfg.format = "short"
	var out, errOut bytes.Buffer
	if _, err := scanOnce(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if !strings.Contains(errOut.String(), "cannot find the rule MadeUpKind, skipping violation") {
		t.Fatalf("missing warning in %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("unknown kind was reported: %q", out.String())
	}

	cfg.keepUnknown = true
	out.Reset()
	errOut.Reset()
	if _, err := scanOnce(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if !strings.Contains(out.String(), "MadeUpKind") {
		t.Fatalf("kept unknown kind missing: %q", out.String())
	}
}

func TestScanOnceExplicitReports(t *testing.T) {
	dir := t.TempDir()
	report := writeFile(t, dir, "elsewhere/run.xml", reportXML("InvalidWrite", dir))

	cfg := baseScanConfig(dir)
	cfg.reports = []string{report}
	var out, errOut bytes.Buffer
	if _, err := scanOnce(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("scanOnce: %v", err)
	}
	if !strings.Contains(out.String(), "MEM1004 work.c:17") {
		t.Fatalf("output = %q", out.String())
	}
}

func newTestScanCmd() *cobra.Command {
	root := &cobra.Command{Use: "grindscan"}
	root.PersistentFlags().String("color", "off", "")
	root.PersistentFlags().Bool("quiet", false, "")
	root.PersistentFlags().Bool("timings", false, "")
	root.PersistentFlags().Int("max-diagnostics", 1000, "")
	cmd := &cobra.Command{Use: "scan"}
	addScanFlags(cmd)
	root.AddCommand(cmd)
	return cmd
}

func TestResolveScanConfigManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grindscan.toml", `[project]
base_dir = "src"

[reports]
path = "out/**/*.xml"

[scan]
jobs = 3
keep_unknown = true
`)
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	cmd := newTestScanCmd()
	cfg, err := resolveScanConfig(cmd, nil, dir)
	if err != nil {
		t.Fatalf("resolveScanConfig: %v", err)
	}
	if cfg.baseDir != filepath.Join(dir, "src") {
		t.Errorf("baseDir = %q", cfg.baseDir)
	}
	if cfg.pattern != "out/**/*.xml" || cfg.jobs != 3 || !cfg.keepUnknown {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.manifest != filepath.Join(dir, "grindscan.toml") {
		t.Errorf("manifest = %q", cfg.manifest)
	}
	if cfg.format != "pretty" || cfg.maxDiagnostics != 1000 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestResolveScanConfigFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grindscan.toml", "[scan]\njobs = 3\n")

	cmd := newTestScanCmd()
	if err := cmd.Flags().Parse([]string{"--jobs", "7", "--pattern", "r/*.xml", "--format", "SARIF"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveScanConfig(cmd, nil, dir)
	if err != nil {
		t.Fatalf("resolveScanConfig: %v", err)
	}
	if cfg.jobs != 7 || cfg.pattern != "r/*.xml" || cfg.format != "sarif" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolveScanConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		pos  []string
	}{
		{"bad format", []string{"--format", "xml"}, nil},
		{"bad ui", []string{"--ui", "maybe"}, nil},
		{"negative jobs", []string{"--jobs", "-1"}, nil},
		{"missing report", nil, []string{filepath.Join(dir, "nope.xml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestScanCmd()
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if _, err := resolveScanConfig(cmd, tt.pos, dir); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
