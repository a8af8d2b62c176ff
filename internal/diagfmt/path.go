package diagfmt

import (
	"path/filepath"
	"strings"

	"lwcgraph/internal/diag"
	"lwcgraph/internal/source"
)

func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return path
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if rel, err := source.RelativePath(path, baseOrDot(baseDir)); err == nil {
			return rel
		}
	case PathModeAuto:
		if rel, err := source.RelativePath(path, baseOrDot(baseDir)); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	}
	return filepath.ToSlash(path)
}

func baseOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// groupByFile splits sorted messages into runs sharing a Filename.
func groupByFile(msgs []diag.Message) [][]diag.Message {
	var groups [][]diag.Message
	for i := 0; i < len(msgs); {
		j := i + 1
		for j < len(msgs) && msgs[j].Filename == msgs[i].Filename {
			j++
		}
		groups = append(groups, msgs[i:j])
		i = j
	}
	return groups
}
