package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addShapeSeeds(f)
}

// addTestdataSeeds adds every report under testdata/reports.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "reports")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".xml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addShapeSeeds covers the structural corners of the format.
func addShapeSeeds(f *testing.F) {
	seeds := []string{
		"",
		"<a/>",
		"<r><error/></r>",
		"<r><ERROR><KIND>X</KIND><Stack><Frame><Dir>/p</Dir></Frame></Stack></ERROR></r>",
		"<r><error><what>no text child</what></error></r>",
		"<r><error><xwhat><text>a<b>c</b>d</text></xwhat></error></r>",
		"<r><error><stack><frame><line>-1</line></frame></stack></error></r>",
		"<r><error><stack><frame><line>12x</line></frame></stack></error></r>",
		"<r><error><stack/><stack><frame><dir>/p</dir></frame></stack></error></r>",
		"<r><error><kind>A</kind></error><error><kind>A</kind></error></r>",
		"<r><error>",
		"<?xml version=\"1.0\"?><!-- c --><r></r>trailing",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
