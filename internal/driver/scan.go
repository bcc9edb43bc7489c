package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"grindscan/internal/trace"
)

// ScanOptions configures ScanReports.
type ScanOptions struct {
	Root  string       // project root for attribution
	Jobs  int          // 0 = GOMAXPROCS
	Cache *DiskCache   // nil disables the disk cache
	Sink  ProgressSink // optional
	// Warn receives non-fatal problems such as cache write failures; nil drops them.
	Warn func(msg string)
}

// ReportResult is the outcome for one report.
type ReportResult struct {
	Path     string
	Findings []Finding
	Err      error // *ReportError when the report failed
	Elapsed  time.Duration
	Cached   bool
}

// ScanReports processes reports in parallel. A failed report is recorded in
// its result and never stops the others; only cancellation of ctx does.
// Results keep the order of reports.
func ScanReports(ctx context.Context, reports []string, opts ScanOptions) ([]ReportResult, error) {
	results := make([]ReportResult, len(reports))
	if len(reports) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "scan")
	span.WithExtra("reports", strconv.Itoa(len(reports))).WithExtra("jobs", strconv.Itoa(jobs))

	for _, path := range reports {
		emit(opts.Sink, Event{Report: path, Stage: StageParse, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reports)))

	for i, path := range reports {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = scanOne(gctx, path, opts)
			if errors.Is(results[i].Err, context.Canceled) || errors.Is(results[i].Err, context.DeadlineExceeded) {
				return results[i].Err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End("canceled")
		return results, err
	}
	span.End("")
	return results, nil
}

func scanOne(ctx context.Context, path string, opts ScanOptions) ReportResult {
	start := time.Now()
	res := ReportResult{Path: path}
	emit(opts.Sink, Event{Report: path, Stage: StageParse, Status: StatusWorking})

	var key cacheKey
	if opts.Cache != nil {
		k, err := reportCacheKey(path, opts.Root)
		if err == nil {
			key = k
			if findings, ok := opts.Cache.Load(key); ok {
				trace.Mark(ctx, trace.ScopeReport, "cache-hit", filepath.Base(path))
				res.Findings, res.Cached = findings, true
				res.Elapsed = time.Since(start)
				emit(opts.Sink, Event{Report: path, Stage: StageCache, Status: StatusDone, Elapsed: res.Elapsed})
				return res
			}
		}
	}

	findings, err := ProcessReport(ctx, path, opts.Root)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		emit(opts.Sink, Event{Report: path, Stage: StageParse, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		return res
	}
	res.Findings = findings
	if opts.Cache != nil && !key.IsZero() {
		// ошибки кэша скан не роняют
		if err := opts.Cache.Store(key, findings); err != nil {
			trace.Mark(ctx, trace.ScopeReport, "cache-store-failed", err.Error())
			if opts.Warn != nil {
				opts.Warn(fmt.Sprintf("cache store for %s: %v", filepath.Base(path), err))
			}
		}
	}
	emit(opts.Sink, Event{Report: path, Stage: StageResolve, Status: StatusDone, Elapsed: res.Elapsed})
	return res
}
