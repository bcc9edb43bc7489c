package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultReportPattern is where Valgrind reports are expected relative to the base dir.
const DefaultReportPattern = "valgrind-reports/valgrind-result-*.xml"

// Config mirrors grindscan.toml.
type Config struct {
	Project ProjectSection `toml:"project"`
	Reports ReportsSection `toml:"reports"`
	Scan    ScanSection    `toml:"scan"`
}

type ProjectSection struct {
	BaseDir string `toml:"base_dir"`
}

type ReportsSection struct {
	Path string `toml:"path"`
}

type ScanSection struct {
	Jobs        int  `toml:"jobs"`
	KeepUnknown bool `toml:"keep_unknown"`
}

// Manifest is a loaded grindscan.toml together with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// DefaultConfig returns the values used when there is no manifest.
func DefaultConfig() Config {
	return Config{
		Project: ProjectSection{BaseDir: "."},
		Reports: ReportsSection{Path: DefaultReportPattern},
	}
}

// LoadManifest finds grindscan.toml above startDir and decodes it.
// ok is false when no manifest exists; that is not an error.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes the manifest at path, filling in defaults for absent keys.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("project", "base_dir") && strings.TrimSpace(cfg.Project.BaseDir) == "" {
		return Config{}, fmt.Errorf("%s: [project].base_dir must not be empty", path)
	}
	if meta.IsDefined("reports", "path") && strings.TrimSpace(cfg.Reports.Path) == "" {
		return Config{}, fmt.Errorf("%s: [reports].path must not be empty", path)
	}
	if cfg.Scan.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [scan].jobs must be >= 0, got %d", path, cfg.Scan.Jobs)
	}
	return cfg, nil
}

// ResolveBaseDir returns the absolute base dir; relative values are taken
// relative to the manifest's directory.
func (m *Manifest) ResolveBaseDir() (string, error) {
	base := m.Config.Project.BaseDir
	if !filepath.IsAbs(base) {
		base = filepath.Join(m.Root, filepath.FromSlash(base))
	}
	return filepath.Abs(base)
}

// WriteManifest writes cfg to dir/grindscan.toml. An existing file is left
// alone unless force is set.
func WriteManifest(dir string, cfg Config, force bool) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", path, err)
		}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { // #nosec G306 -- manifest is meant to be committed
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
