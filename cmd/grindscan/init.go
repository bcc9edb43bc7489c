package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"grindscan/internal/driver"
	"grindscan/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a grindscan.toml manifest",
	Long: `Create a grindscan.toml manifest in [dir] (the current directory by default).
The manifest records the project base dir used for ownership resolution and the
pattern under which Valgrind reports are looked up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	addInitFlags(initCmd)
}

func addInitFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("force", false, "overwrite an existing manifest")
	cmd.Flags().String("base-dir", ".", "project base dir, relative to the manifest")
	cmd.Flags().String("pattern", project.DefaultReportPattern, "report glob, relative to the base dir")
	cmd.Flags().Int("jobs", 0, "parallel report parsers (0 = GOMAXPROCS)")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	force, _ := cmd.Flags().GetBool("force")
	baseDir, _ := cmd.Flags().GetString("base-dir")
	pattern, _ := cmd.Flags().GetString("pattern")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if baseDir == "" {
		return fmt.Errorf("--base-dir must not be empty")
	}
	if pattern == "" {
		return fmt.Errorf("--pattern must not be empty")
	}
	if jobs < 0 {
		return fmt.Errorf("--jobs must be >= 0, got %d", jobs)
	}
	if _, err := driver.NewReportMatcher(target, pattern); err != nil {
		return err
	}

	cfg := project.DefaultConfig()
	cfg.Project.BaseDir = filepath.ToSlash(baseDir)
	cfg.Reports.Path = pattern
	cfg.Scan.Jobs = jobs

	path, err := project.WriteManifest(target, cfg, force)
	if err != nil {
		return err
	}

	rel := path
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, path); err2 == nil {
			rel = r
		}
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", rel)
	}
	return nil
}
