package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[project]
base_dir = "src"

[scan]
jobs = 3
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest() = ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Errorf("Root = %q, want %q", m.Root, root)
	}
	if m.Config.Scan.Jobs != 3 {
		t.Errorf("Jobs = %d", m.Config.Scan.Jobs)
	}
	if m.Config.Reports.Path != DefaultReportPattern {
		t.Errorf("absent [reports].path must keep the default, got %q", m.Config.Reports.Path)
	}
	base, err := m.ResolveBaseDir()
	if err != nil || base != filepath.Join(root, "src") {
		t.Errorf("ResolveBaseDir() = %q, %v", base, err)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || m != nil {
		t.Errorf("expected no manifest, got %+v", m)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", "[project\n", "failed to parse TOML"},
		{"unknown key", "[scan]\nthreads = 2\n", "unknown keys: scan.threads"},
		{"empty base dir", "[project]\nbase_dir = \"\"\n", "base_dir must not be empty"},
		{"empty pattern", "[reports]\npath = \" \"\n", "[reports].path must not be empty"},
		{"negative jobs", "[scan]\njobs = -1\n", "jobs must be >= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Scan.KeepUnknown = true

	path, err := WriteManifest(dir, cfg, false)
	if err != nil {
		t.Fatalf("WriteManifest() error: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}

	if _, err := WriteManifest(dir, cfg, false); err == nil {
		t.Error("expected error for existing manifest")
	}
	if _, err := WriteManifest(dir, cfg, true); err != nil {
		t.Errorf("force overwrite failed: %v", err)
	}
}

func TestDigests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.xml")
	writeFile(t, path, "<valgrindoutput/>")

	fromFile, err := DigestFile(path)
	if err != nil {
		t.Fatalf("DigestFile() error: %v", err)
	}
	if fromFile != DigestBytes([]byte("<valgrindoutput/>")) {
		t.Error("file and byte digests differ")
	}
	if fromFile.IsZero() || len(fromFile.Hex()) != 64 {
		t.Errorf("unexpected digest %s", fromFile.Hex())
	}

	a, b := DigestString("a"), DigestString("b")
	if Combine(a, b) == Combine(b, a) {
		t.Error("Combine must depend on order")
	}
	if Combine(a) == a {
		t.Error("Combine must rehash")
	}
}
