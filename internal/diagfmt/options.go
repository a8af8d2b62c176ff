package diagfmt

import (
	"fmt"
	"strings"

	"lwcgraph/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to BaseDir when they are below it.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto, absolute, relative or basename.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

// Format is an output format name.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatShort  Format = "short"
)

// ParseFormat accepts pretty, json or short.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatJSON, FormatShort:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be pretty, json or short)", s)
}

// PrettyOpts configures pretty-printing of messages.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Context prints the offending source line under each message. Lines
	// are read through FS.
	Context bool
	FS      source.Provider
}

// JSONOpts configures JSON output of messages.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Max      int // обрезка вывода, не Bag
}
