package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"grindscan/internal/driver"
)

const watchDebounce = 300 * time.Millisecond

// watchReports scans once, then re-scans whenever a matching report is
// written, created or removed, until ctx is canceled.
func watchReports(ctx context.Context, cfg scanConfig, out, errOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(cfg)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	relevant, err := watchFilter(cfg)
	if err != nil {
		return err
	}

	// прогресс-бар поверх повторных сканов только мешает
	cfg.ui = uiModeOff
	rescan := func() {
		if _, err := scanOnce(ctx, cfg, out, errOut); err != nil && ctx.Err() == nil {
			fmt.Fprintln(errOut, "error:", err)
		}
		if !cfg.quiet {
			fmt.Fprintf(errOut, "watching %d director(ies) for report changes, press Ctrl+C to stop\n", len(dirs))
		}
	}
	rescan()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if len(cfg.reports) == 0 && event.Has(fsnotify.Create) {
				// новый каталог (например, valgrind-reports) подписываем вместе с поддеревом
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					added, err := dirsBelow(event.Name)
					if err != nil && !cfg.quiet {
						fmt.Fprintln(errOut, "warning: watcher:", err)
					}
					for _, dir := range added {
						if err := watcher.Add(dir); err != nil {
							if !cfg.quiet {
								fmt.Fprintf(errOut, "warning: failed to watch directory %s: %v\n", dir, err)
							}
							continue
						}
						dirs = append(dirs, dir)
					}
					debounce.Reset(watchDebounce)
					continue
				}
			}
			if !relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if !cfg.quiet {
				fmt.Fprintln(errOut, "warning: watcher:", err)
			}
		case <-debounce.C:
			rescan()
		case <-ctx.Done():
			return nil
		}
	}
}

// watchDirs returns the directories to subscribe to: the parents of explicit
// reports, or the pattern root and every directory below it.
func watchDirs(cfg scanConfig) ([]string, error) {
	seen := make(map[string]struct{})
	if len(cfg.reports) > 0 {
		for _, r := range cfg.reports {
			seen[filepath.Dir(r)] = struct{}{}
		}
	} else {
		root := driver.PatternRoot(cfg.baseDir, cfg.pattern)
		// каталога с отчётами может ещё не быть
		for root != cfg.baseDir {
			if _, err := os.Stat(root); err == nil {
				break
			}
			root = filepath.Dir(root)
		}
		below, err := dirsBelow(root)
		if err != nil {
			return nil, err
		}
		for _, d := range below {
			seen[d] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// dirsBelow lists root and every directory under it.
func dirsBelow(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return dirs, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	return dirs, nil
}

func watchFilter(cfg scanConfig) (func(string) bool, error) {
	if len(cfg.reports) > 0 {
		wanted := make(map[string]struct{}, len(cfg.reports))
		for _, r := range cfg.reports {
			wanted[filepath.Clean(r)] = struct{}{}
		}
		return func(name string) bool {
			_, ok := wanted[filepath.Clean(name)]
			return ok
		}, nil
	}
	return driver.NewReportMatcher(cfg.baseDir, cfg.pattern)
}
