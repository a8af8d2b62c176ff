package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lwcgraph/internal/bundle"
)

// skipped while walking directories
var skipDirs = map[string]bool{
	"node_modules": true,
	"__tests__":    true,
}

// ListFiles expands paths into the sorted list of files with a script or
// template extension. Hidden directories are skipped. Explicit file arguments
// are kept even when their extension is not recognized, so the caller sees
// the resulting error.
func ListFiles(paths []string, exts bundle.Extensions) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("lint target %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := exts.KindOf(filepath.Ext(path)); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
