package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *recordingSink) count(status Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Status == status {
			n++
		}
	}
	return n
}

func TestScanReportsIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	reports := []string{
		writeReport(t, dir, "r1.xml", reportXML([2]string{"InvalidWrite", src})),
		writeReport(t, dir, "r2.xml", "<valgrindoutput><error>"),
		writeReport(t, dir, "r3.xml", reportXML([2]string{"Race", src}, [2]string{"InvalidFree", src})),
	}

	sink := &recordingSink{}
	results, err := ScanReports(context.Background(), reports, ScanOptions{Root: dir, Jobs: 2, Sink: sink})
	if err != nil {
		t.Fatalf("ScanReports() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Path != reports[i] {
			t.Errorf("result %d is for %s, want %s", i, res.Path, reports[i])
		}
	}
	if results[0].Err != nil || len(results[0].Findings) != 1 {
		t.Errorf("r1: %+v", results[0])
	}
	if results[1].Err == nil || results[1].Findings != nil {
		t.Errorf("r2 must fail alone: %+v", results[1])
	}
	if results[2].Err != nil || len(results[2].Findings) != 2 {
		t.Errorf("r3: %+v", results[2])
	}

	if got := sink.count(StatusQueued); got != 3 {
		t.Errorf("queued events = %d", got)
	}
	if got := sink.count(StatusError); got != 1 {
		t.Errorf("error events = %d", got)
	}
	if got := sink.count(StatusDone); got != 2 {
		t.Errorf("done events = %d", got)
	}
}

func TestScanReportsEmptyAndCanceled(t *testing.T) {
	results, err := ScanReports(context.Background(), nil, ScanOptions{})
	if err != nil || len(results) != 0 {
		t.Errorf("empty scan = %v, %v", results, err)
	}

	dir := t.TempDir()
	report := writeReport(t, dir, "r.xml", reportXML([2]string{"Race", dir}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ScanReports(ctx, []string{report}, ScanOptions{Root: dir}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestScanReportsUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt() error: %v", err)
	}
	report := writeReport(t, dir, "r.xml", reportXML([2]string{"UninitValue", filepath.Join(dir, "src")}))
	opts := ScanOptions{Root: dir, Cache: cache}

	first, err := ScanReports(context.Background(), []string{report}, opts)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if first[0].Cached {
		t.Error("first scan cannot be cached")
	}

	second, err := ScanReports(context.Background(), []string{report}, opts)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if !second[0].Cached {
		t.Fatal("second scan must hit the cache")
	}
	got, want := second[0].Findings, first[0].Findings
	if len(got) != len(want) || got[0].Path != want[0].Path || got[0].Line != want[0].Line ||
		got[0].Message != want[0].Message || !got[0].Stack.Equal(want[0].Stack) {
		t.Errorf("cached findings differ:\n got %+v\nwant %+v", got, want)
	}

	// другой корень - другой ключ
	other, err := ScanReports(context.Background(), []string{report}, ScanOptions{Root: "/elsewhere", Cache: cache})
	if err != nil {
		t.Fatalf("third scan: %v", err)
	}
	if other[0].Cached || len(other[0].Findings) != 0 {
		t.Errorf("root must be part of the cache key: %+v", other[0])
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll() error: %v", err)
	}
	again, _ := ScanReports(context.Background(), []string{report}, opts)
	if again[0].Cached {
		t.Error("DropAll must invalidate entries")
	}
}

func TestScanReportsWarnsOnCacheStoreFailure(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cache, err := OpenDiskCacheAt(cacheDir)
	if err != nil {
		t.Fatalf("OpenDiskCacheAt() error: %v", err)
	}
	// файл на месте каталога записей ломает Store
	if err := os.WriteFile(filepath.Join(cacheDir, "reports"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	report := writeReport(t, dir, "r.xml", reportXML([2]string{"UninitValue", filepath.Join(dir, "src")}))

	var mu sync.Mutex
	var warnings []string
	opts := ScanOptions{Root: dir, Cache: cache, Warn: func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, msg)
	}}
	results, err := ScanReports(context.Background(), []string{report}, opts)
	if err != nil {
		t.Fatalf("ScanReports() error: %v", err)
	}
	if results[0].Err != nil || len(results[0].Findings) != 1 {
		t.Fatalf("scan must succeed without the cache: %+v", results[0])
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "r.xml") {
		t.Errorf("warnings = %q, want one cache store warning", warnings)
	}
}
