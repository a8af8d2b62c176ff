package source

import (
	"os"
)

// Provider is the narrow filesystem surface bundle discovery needs.
// Implementations must not cache and must not translate errors: a missing
// directory is reported by ListDir exactly as the underlying store reports it.
type Provider interface {
	// Exists reports whether a file or directory is present at path.
	Exists(path string) bool
	// ListDir returns the entry names (not paths) of the directory at path.
	ListDir(path string) ([]string, error)
	// ReadFile returns the UTF-8 content of the file at path.
	ReadFile(path string) (string, error)
}

// OSProvider reads from the real filesystem.
type OSProvider struct{}

// Exists reports whether path can be stat'ed.
func (OSProvider) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListDir returns directory entry names in the order os.ReadDir yields them.
func (OSProvider) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadFile returns the file content as a string.
func (OSProvider) ReadFile(path string) (string, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
