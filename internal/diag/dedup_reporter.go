package diag

type dedupKey struct {
	code Code
	sev  Severity
	kind string
	path string
	line uint32
	msg  string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, kind, primary location and message.
// Two reports that contain the same defect produce the same diagnostic twice;
// only the first one is forwarded.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, kind string, primary Location, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{
		code: code,
		sev:  sev,
		kind: kind,
		path: primary.Path,
		line: primary.Line,
		msg:  msg,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, kind, primary, msg, notes)
	}
}

// Seen returns the number of distinct diagnostics forwarded so far.
func (r *DedupReporter) Seen() int {
	if r == nil {
		return 0
	}
	return len(r.seen)
}
