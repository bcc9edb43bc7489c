package source

import (
	"os"
	"path/filepath"
	"strings"
)

// AbsolutePath resolves p against the working directory.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir. Paths that escape baseDir are
// returned absolute, since "../../x.c" is harder to read than the full path.
func RelativePath(p, baseDir string) (string, error) {
	absPath, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return absPath, nil
	}
	rel = normalizePath(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return absPath, nil
	}
	return rel, nil
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	return filepath.Base(p)
}

// FormatPath форматирует путь в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
// baseDir: базовая директория для относительных путей (игнорируется для других режимов)
func FormatPath(p, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(p); err == nil {
			return abs
		}
		return p

	case "relative":
		if baseDir == "" {
			// Если базовая директория не указана, используем текущую
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(p, baseDir); err == nil {
			return rel
		}
		return p

	case "basename":
		return BaseName(p)

	case "auto":
		// Auto: внутри baseDir - относительный путь, иначе как есть
		if baseDir != "" && filepath.IsAbs(p) {
			if rel, err := RelativePath(p, baseDir); err == nil && !filepath.IsAbs(rel) {
				return rel
			}
		}
		return p

	default:
		return p
	}
}
