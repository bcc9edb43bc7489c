package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"grindscan/internal/memcheck"
	"grindscan/internal/trace"
)

// ReportError ties a failure to the report it came from.
type ReportError struct {
	Path string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// Malformed reports whether the report itself is broken, as opposed to unreadable.
func (e *ReportError) Malformed() bool {
	return errors.Is(e.Err, memcheck.ErrMalformed)
}

// ProcessReport parses one report and attributes its errors to root.
// A failed report yields no findings and a *ReportError.
func ProcessReport(ctx context.Context, path, root string) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeReport, "report:"+filepath.Base(path))

	set, err := memcheck.ParseFile(path)
	if err != nil {
		span.End("failed")
		return nil, &ReportError{Path: path, Err: err}
	}

	findings := Process(set, root)
	if trace.FromContext(ctx).Level().ShouldEmit(trace.ScopeError) {
		for _, e := range set.Items() {
			if _, ok := e.OwnFrame(root); !ok {
				trace.Mark(ctx, trace.ScopeError, "unattributed:"+e.Kind, e.Text)
			}
		}
	}
	span.WithExtra("errors", strconv.Itoa(set.Len())).
		WithExtra("findings", strconv.Itoa(len(findings))).
		End("")
	return findings, nil
}
