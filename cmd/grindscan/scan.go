package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"grindscan/internal/diag"
	"grindscan/internal/diagfmt"
	"grindscan/internal/driver"
	"grindscan/internal/observ"
	"grindscan/internal/source"
	"grindscan/internal/trace"
	"grindscan/internal/version"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [report.xml...]",
	Short: "Scan Valgrind XML reports and print project diagnostics",
	Long: `Scan parses Valgrind XML reports, drops duplicate errors and reports each
remaining error at the first stack frame inside the base directory. Errors
that never touch the project are ignored. Without arguments the reports are
discovered with the [reports].path pattern of grindscan.toml.`,
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("base-dir", ".", "project root used to attribute errors")
	cmd.Flags().String("pattern", "", "report glob relative to the base dir (supports **)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("disk-cache", false, "cache per-report results on disk")
	cmd.Flags().Bool("keep-unknown", false, "report kinds without a rule instead of skipping them")
	cmd.Flags().Bool("no-warnings", false, "drop warning diagnostics")
	cmd.Flags().Bool("with-notes", false, "include stack frame notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().Bool("watch", false, "re-scan when reports change")
}

// runScan executes the "scan" command and exits with a non-zero status when a
// report failed or an error diagnostic remains.
func runScan(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := resolveScanConfig(cmd, args, wd)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer := trace.FromContext(ctx)
	defer dumpTraceOnPanic(tracer)

	if cfg.watch {
		return watchReports(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	exitCode, err := scanOnce(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		dumpTraceRing(tracer, cmd.ErrOrStderr())
		return err
	}
	if exitCode != 0 {
		return errSilent
	}
	return nil
}

// scanOnce discovers, scans, collects and renders one round. The returned
// code is 1 when a report failed or an error diagnostic remains.
func scanOnce(ctx context.Context, cfg scanConfig, out, errOut io.Writer) (int, error) {
	var timer *observ.Timer
	if cfg.timings {
		timer = observ.NewTimer()
	}
	warn := func(msg string) {
		if !cfg.quiet {
			fmt.Fprintln(errOut, "warning:", msg)
		}
	}

	done := timer.Track("discover")
	reports := cfg.reports
	if len(reports) == 0 {
		found, err := driver.FindReports(cfg.baseDir, cfg.pattern)
		if err != nil {
			done("failed")
			return 1, err
		}
		reports = found
	}
	done(fmt.Sprintf("%d reports", len(reports)))
	if len(reports) == 0 {
		warn(fmt.Sprintf("no reports match %q in %s", cfg.pattern, cfg.baseDir))
	}

	opts := driver.ScanOptions{Root: cfg.baseDir, Jobs: cfg.jobs, Warn: warn}
	if cfg.diskCache {
		cache, err := driver.OpenDiskCache("grindscan")
		if err != nil {
			warn(fmt.Sprintf("disk cache disabled: %v", err))
		} else {
			opts.Cache = cache
		}
	}

	done = timer.Track("scan")
	var (
		results []driver.ReportResult
		err     error
	)
	if len(reports) > 0 && shouldUseTUI(cfg.ui, cfg.quiet) {
		results, err = runScanWithUI(ctx, "scanning reports", reports, opts)
	} else {
		results, err = driver.ScanReports(ctx, reports, opts)
	}
	done("")
	if err != nil {
		return 1, err
	}

	done = timer.Track("collect")
	bag := diag.NewBag(cfg.maxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	stats := driver.Collect(results, driver.CollectOptions{KeepUnknown: cfg.keepUnknown, Warn: warn}, reporter)
	bag.Dedup()
	if cfg.noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	bag.Sort()
	done(fmt.Sprintf("%d diagnostics", bag.Len()))

	done = timer.Track("render")
	err = renderDiagnostics(out, bag, cfg, stats)
	done("")
	if err != nil {
		return 1, err
	}

	if timer != nil {
		printScanTimings(errOut, timer, results, stats)
	}
	if stats.Failed > 0 || bag.HasErrors() {
		return 1, nil
	}
	return 0, nil
}

func renderDiagnostics(out io.Writer, bag *diag.Bag, cfg scanConfig, stats driver.CollectStats) error {
	fs := source.NewFileSetWithBase(cfg.baseDir)
	pathMode := diagfmt.PathModeAuto
	if cfg.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch cfg.format {
	case "short":
		baseDir := cfg.baseDir
		if cfg.fullPath {
			baseDir = ""
		}
		_, err := io.WriteString(out, diag.FormatShortDiagnostics(bag.Items(), baseDir, cfg.withNotes))
		return err
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{PathMode: pathMode, IncludeNotes: cfg.withNotes})
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "grindscan",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			BaseDir:        cfg.baseDir,
		})
	default:
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     cfg.color,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: cfg.withNotes,
		})
		if !cfg.quiet {
			if bag.Len() > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%d error(s), %d warning(s) in %d report(s)",
				bag.Count(diag.SevError), bag.Count(diag.SevWarning), stats.Reports)
			if stats.Failed > 0 {
				fmt.Fprintf(out, ", %d report(s) failed", stats.Failed)
			}
			fmt.Fprintln(out)
		}
		return nil
	}
}
