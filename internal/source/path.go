package source

import (
	"path/filepath"
	"strings"
)

// Stem returns the part of a file name before its first '.', e.g.
// "foo.2.html" -> "foo". Directories are ignored.
func Stem(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// TrimExt returns the base name without its last extension, e.g.
// "/a/foo.2.html" -> "foo.2".
func TrimExt(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AbsolutePath returns an absolute, slash-normalized path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

// RelativePath returns path relative to baseDir, slash-normalized.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
