package driver

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"grindscan/internal/diag"
	"grindscan/internal/memcheck"
)

// CollectOptions configures Collect.
type CollectOptions struct {
	// KeepUnknown reports findings whose kind has no rule as UnknownCode
	// warnings instead of skipping them.
	KeepUnknown bool
	// Warn receives user-facing warnings; nil drops them.
	Warn func(msg string)
}

// CollectStats summarizes a Collect run.
type CollectStats struct {
	Reports  int
	Failed   int
	Cached   int
	Findings int
	Reported int
	Skipped  int
}

// Collect turns scan results into diagnostics. Findings are matched to
// catalog rules by kind; failed reports become REP diagnostics located at
// the report itself.
func Collect(results []ReportResult, opts CollectOptions, reporter diag.Reporter) CollectStats {
	var stats CollectStats
	for i := range results {
		res := &results[i]
		stats.Reports++
		if res.Cached {
			stats.Cached++
		}
		if res.Err != nil {
			stats.Failed++
			reportFailure(reporter, res)
			continue
		}
		for j := range res.Findings {
			stats.Findings++
			if collectFinding(reporter, &res.Findings[j], opts) {
				stats.Reported++
			} else {
				stats.Skipped++
			}
		}
	}
	return stats
}

func collectFinding(reporter diag.Reporter, f *Finding, opts CollectOptions) bool {
	code, ok := diag.LookupKind(f.Kind)
	if !ok {
		if opts.Warn != nil {
			opts.Warn(fmt.Sprintf("cannot find the rule %s, skipping violation", f.Kind))
		}
		if !opts.KeepUnknown {
			return false
		}
		code = diag.UnknownCode
	}

	b := diag.NewReportBuilder(reporter, code.DefaultSeverity(), code, diag.Location{Path: f.Path, Line: lineOf(f.Line)}, f.Message).
		WithKind(f.Kind)
	for _, fr := range f.Stack.Frames {
		if fr.File == "" || fr.Dir == "" {
			continue
		}
		b.WithNote(diag.Location{Path: fr.Path(), Line: lineOf(fr.Line)}, fr.String())
	}
	b.Emit()
	return true
}

func reportFailure(reporter diag.Reporter, res *ReportResult) {
	code := diag.RepLoadError
	cause := res.Err
	var repErr *ReportError
	if errors.As(res.Err, &repErr) {
		cause = repErr.Err
		if repErr.Malformed() {
			code = diag.RepMalformed
		}
	} else if errors.Is(res.Err, memcheck.ErrMalformed) {
		code = diag.RepMalformed
	}
	diag.ReportError(reporter, code, diag.Location{Path: res.Path}, cause.Error()).Emit()
}

// lineOf maps a frame line to a diagnostic line; unknown stays 0.
func lineOf(line int) uint32 {
	if line <= 0 {
		return 0
	}
	n, err := safecast.Conv[uint32](line)
	if err != nil {
		return 0
	}
	return n
}
