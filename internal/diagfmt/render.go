package diagfmt

import (
	"io"

	"lwcgraph/internal/diag"
)

// Render writes bag in format f. Path settings and color come from opts.
func Render(w io.Writer, bag *diag.Bag, f Format, opts PrettyOpts) error {
	switch f {
	case FormatJSON:
		return JSON(w, bag, JSONOpts{PathMode: opts.PathMode, BaseDir: opts.BaseDir})
	case FormatShort:
		return Short(w, bag, opts.PathMode, opts.BaseDir)
	default:
		return Pretty(w, bag, opts)
	}
}
