package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"grindscan/internal/driver"
	"grindscan/internal/observ"
)

const slowestReports = 5

func printScanTimings(out io.Writer, timer *observ.Timer, results []driver.ReportResult, stats driver.CollectStats) {
	if out == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
	fmt.Fprintf(out, "reports: %d scanned, %d cached, %d failed; findings: %d reported, %d skipped\n",
		stats.Reports, stats.Cached, stats.Failed, stats.Reported, stats.Skipped)

	sorted := append([]driver.ReportResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Elapsed > sorted[j].Elapsed })
	for i, res := range sorted {
		if i == slowestReports {
			break
		}
		note := ""
		if res.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(out, "  %-32s %7.1f ms%s\n", filepath.Base(res.Path), toMillis(res.Elapsed), note)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
