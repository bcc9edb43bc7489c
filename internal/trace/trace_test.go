package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopeReport, false},
		{LevelDetail, ScopeReport, true},
		{LevelDetail, ScopeError, false},
		{LevelDebug, ScopeError, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat = %v, %v", f, err)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)

	span := Begin(tr, ScopeReport, "report", 0)
	span.WithExtra("findings", "3").End("ok")
	Point(tr, ScopeError, "skipped", "too detailed", span.ID())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected begin+end only, got %d lines:\n%s", len(lines), buf.String())
	}
	var end map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("invalid ndjson: %v", err)
	}
	if end["kind"] != "end" || end["scope"] != "report" || end["detail"] != "ok" {
		t.Errorf("unexpected end event: %v", end)
	}
}

func TestChromeFormatIsArray(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	Begin(tr, ScopeDriver, "scan", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 2 || doc.TraceEvents[0]["ph"] != "B" {
		t.Errorf("unexpected events: %v", doc.TraceEvents)
	}
}

func TestRingAndMulti(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	var buf bytes.Buffer
	multi := Tee(LevelDebug, ring, NewStreamTracer(&buf, LevelDebug, FormatText))

	for _, name := range []string{"a", "b", "c"} {
		Point(multi, ScopeError, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Errorf("ring must keep the last two events, got %+v", snap)
	}
	if !strings.Contains(buf.String(), "• c") {
		t.Errorf("text stream missing point:\n%s", buf.String())
	}

	var dump bytes.Buffer
	if err := ring.Dump(&dump, FormatText); err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	if !strings.HasPrefix(dump.String(), "... 1 earlier event(s) dropped\n") || strings.Count(dump.String(), "\n") != 3 {
		t.Errorf("unexpected dump:\n%s", dump.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("expected Nop without tracer")
	}
	tr := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Error("tracer not propagated")
	}

	ctx, scan := Start(ctx, ScopeDriver, "scan")
	if SpanFromContext(ctx) != scan || scan.ID() == 0 {
		t.Fatal("driver span not carried by context")
	}
	// report scope is below phase: the context keeps the driver span
	inner, report := Start(ctx, ScopeReport, "report")
	if report.ID() != 0 || SpanFromContext(inner) != scan {
		t.Error("filtered span must not replace its parent")
	}
	Mark(inner, ScopeDriver, "cache-hit", "r.xml")
	scan.End("")

	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("events = %+v", snap)
	}
	if snap[1].Kind != KindPoint || snap[1].ParentID != scan.ID() {
		t.Errorf("mark not parented on the driver span: %+v", snap[1])
	}
	if snap[2].Kind != KindSpanEnd || snap[2].SpanID != scan.ID() {
		t.Errorf("unexpected end event %+v", snap[2])
	}
}

func TestRingOf(t *testing.T) {
	ring := NewRingTracer(1, LevelPhase)
	var buf bytes.Buffer
	if got, ok := RingOf(Tee(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)); !ok || got != ring {
		t.Error("ring not found behind tee")
	}
	if _, ok := RingOf(Nop); ok {
		t.Error("nop has no ring")
	}
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if _, err := New(Config{Level: LevelPhase}); err == nil {
		t.Error("missing mode must be rejected")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(64, LevelError)
	stop := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	stop()

	snap := ring.Snapshot()
	if len(snap) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	if snap[0].Kind != KindHeartbeat || snap[0].Detail != "#1" {
		t.Errorf("unexpected heartbeat %+v", snap[0])
	}
	n := len(snap)
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != n {
		t.Error("heartbeat kept running after stop")
	}
	StartHeartbeat(Nop, time.Millisecond)()
}
