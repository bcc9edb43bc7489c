package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"grindscan/internal/project"
)

// FindReports returns the files under baseDir whose slash-separated path
// relative to baseDir matches pattern. "**" crosses directories, "*" does not.
// An empty pattern means project.DefaultReportPattern. The result is sorted.
func FindReports(baseDir, pattern string) ([]string, error) {
	match, err := NewReportMatcher(baseDir, pattern)
	if err != nil {
		return nil, err
	}

	root := PatternRoot(baseDir, pattern)
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && match(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// NewReportMatcher compiles pattern into a predicate over file paths.
// Paths outside baseDir never match.
func NewReportMatcher(baseDir, pattern string) (func(path string) bool, error) {
	if pattern == "" {
		pattern = project.DefaultReportPattern
	}
	pattern = filepath.ToSlash(pattern)
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid report pattern %q: %w", pattern, err)
	}
	return func(path string) bool {
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return false
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return false
		}
		return g.Match(rel)
	}, nil
}

// PatternRoot returns the deepest directory under baseDir that every match of
// pattern lies in: the literal directory prefix of the pattern.
func PatternRoot(baseDir, pattern string) string {
	if pattern == "" {
		pattern = project.DefaultReportPattern
	}
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	literal := make([]string, 0, len(parts))
	for _, p := range parts[:len(parts)-1] {
		if strings.ContainsAny(p, "*?[{\\") {
			break
		}
		literal = append(literal, p)
	}
	return filepath.Join(append([]string{baseDir}, literal...)...)
}
