// Package scanner walks a project tree and groups source files by category.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/pluginpipe/internal/domain"
)

var skipDirs = map[string]bool{
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".git":          true,
	"node_modules":  true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	"build":         true,
	"dist":          true,
	".tox":          true,
	".pluginpipe":   true,
	".pytest_cache": true,
}

// FileScanner implements domain.CategoryDetector by walking the filesystem.
type FileScanner struct {
	extraSkip map[string]bool
}

// New returns a scanner that also skips the given directory names.
func New(excludeDirs ...string) *FileScanner {
	extra := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		extra[strings.TrimSuffix(d, "/")] = true
	}
	return &FileScanner{extraSkip: extra}
}

// Detect returns the categories present under root, in the order their
// first file was seen. File paths are relative to root.
func (s *FileScanner) Detect(root string) ([]domain.CategoryFiles, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	index := make(map[domain.Category]int)
	var out []domain.CategoryFiles

	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && (skipDirs[d.Name()] || s.extraSkip[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		cat, ok := domain.CategoryForExt(filepath.Ext(d.Name()))
		if !ok {
			return nil
		}
		rel, _ := filepath.Rel(absRoot, path)

		i, seen := index[cat]
		if !seen {
			i = len(out)
			index[cat] = i
			out = append(out, domain.CategoryFiles{Category: cat})
		}
		out[i].Files = append(out[i].Files, rel)
		return nil
	})
	return out, err
}
