package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"grindscan/internal/project"
)

// scanConfig is the merged view of grindscan.toml and command-line flags.
type scanConfig struct {
	baseDir        string
	pattern        string
	reports        []string // explicit reports; empty means discover by pattern
	jobs           int
	keepUnknown    bool
	format         string
	diskCache      bool
	noWarnings     bool
	withNotes      bool
	fullPath       bool
	ui             uiMode
	watch          bool
	maxDiagnostics int
	color          bool
	quiet          bool
	timings        bool
	manifest       string // path of the manifest used, if any
}

var scanFormats = map[string]bool{"pretty": true, "short": true, "json": true, "sarif": true}

// resolveScanConfig merges defaults, the manifest found above startDir and
// the flags the user actually set, in that order.
func resolveScanConfig(cmd *cobra.Command, args []string, startDir string) (scanConfig, error) {
	cfg := scanConfig{
		pattern: project.DefaultReportPattern,
	}

	manifest, ok, err := project.LoadManifest(startDir)
	if err != nil {
		return scanConfig{}, err
	}
	if ok {
		cfg.manifest = manifest.Path
		cfg.baseDir, err = manifest.ResolveBaseDir()
		if err != nil {
			return scanConfig{}, fmt.Errorf("%s: failed to resolve base_dir: %w", manifest.Path, err)
		}
		cfg.pattern = manifest.Config.Reports.Path
		cfg.jobs = manifest.Config.Scan.Jobs
		cfg.keepUnknown = manifest.Config.Scan.KeepUnknown
	} else {
		cfg.baseDir, err = filepath.Abs(startDir)
		if err != nil {
			return scanConfig{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		dir, _ := flags.GetString("base-dir")
		if cfg.baseDir, err = filepath.Abs(dir); err != nil {
			return scanConfig{}, err
		}
	}
	if flags.Changed("pattern") {
		cfg.pattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("jobs") {
		cfg.jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("keep-unknown") {
		cfg.keepUnknown, _ = flags.GetBool("keep-unknown")
	}
	if cfg.jobs < 0 {
		return scanConfig{}, fmt.Errorf("--jobs must be >= 0, got %d", cfg.jobs)
	}

	format, _ := flags.GetString("format")
	cfg.format = strings.ToLower(strings.TrimSpace(format))
	if !scanFormats[cfg.format] {
		return scanConfig{}, fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", format)
	}
	cfg.diskCache, _ = flags.GetBool("disk-cache")
	cfg.noWarnings, _ = flags.GetBool("no-warnings")
	cfg.withNotes, _ = flags.GetBool("with-notes")
	cfg.fullPath, _ = flags.GetBool("fullpath")
	cfg.watch, _ = flags.GetBool("watch")
	uiValue, _ := flags.GetString("ui")
	if cfg.ui, err = readUIMode(uiValue); err != nil {
		return scanConfig{}, err
	}

	root := cmd.Root().PersistentFlags()
	cfg.maxDiagnostics, _ = root.GetInt("max-diagnostics")
	cfg.quiet, _ = root.GetBool("quiet")
	cfg.timings, _ = root.GetBool("timings")
	colorFlag, _ := root.GetString("color")
	if cfg.color, err = resolveColor(colorFlag); err != nil {
		return scanConfig{}, err
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return scanConfig{}, err
		}
		if _, err := os.Stat(abs); err != nil {
			return scanConfig{}, fmt.Errorf("report %s: %w", arg, err)
		}
		cfg.reports = append(cfg.reports, abs)
	}
	return cfg, nil
}
