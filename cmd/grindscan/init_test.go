package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"grindscan/internal/project"
)

func newTestInitCmd(args ...string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "init"}
	addInitFlags(cmd)
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Flags().Parse(args); err != nil {
		panic(err)
	}
	return cmd, &out
}

func TestRunInitWritesManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	cmd, out := newTestInitCmd("--base-dir", "src", "--pattern", "reports/**/*.xml", "--jobs", "2")
	if err := runInit(cmd, []string{dir}); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if !strings.Contains(out.String(), project.ManifestName) {
		t.Errorf("output = %q", out.String())
	}

	cfg, err := project.LoadConfig(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Project.BaseDir != "src" || cfg.Reports.Path != "reports/**/*.xml" || cfg.Scan.Jobs != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestRunInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cmd, _ := newTestInitCmd()
	if err := runInit(cmd, []string{dir}); err != nil {
		t.Fatalf("first init: %v", err)
	}
	cmd, _ = newTestInitCmd()
	if err := runInit(cmd, []string{dir}); err == nil {
		t.Fatal("second init without --force succeeded")
	}
	cmd, _ = newTestInitCmd("--force", "--jobs", "4")
	if err := runInit(cmd, []string{dir}); err != nil {
		t.Fatalf("forced init: %v", err)
	}
	cfg, err := project.LoadConfig(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scan.Jobs != 4 {
		t.Fatalf("jobs = %d, want 4", cfg.Scan.Jobs)
	}
}

func TestRunInitRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain", "x")
	tests := []struct {
		name   string
		flags  []string
		target string
	}{
		{"target is a file", nil, file},
		{"bad pattern", []string{"--pattern", "reports/[.xml"}, dir},
		{"negative jobs", []string{"--jobs", "-2"}, dir},
		{"empty base dir", []string{"--base-dir", ""}, dir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := newTestInitCmd(tt.flags...)
			if err := runInit(cmd, []string{tt.target}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, project.ManifestName)); !os.IsNotExist(err) {
		t.Fatalf("manifest written on failure: %v", err)
	}
}
