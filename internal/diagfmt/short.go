package diagfmt

import (
	"fmt"
	"io"

	"lwcgraph/internal/diag"
)

// Short prints one line per message:
// <path>:<line>:<col>: <severity>: <message> [<rule>]
func Short(w io.Writer, bag *diag.Bag, mode PathMode, baseDir string) error {
	for _, m := range bag.Items() {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n",
			formatPath(m.Filename, mode, baseDir), m.Line, m.Column, m.Severity, m.Message, m.RuleID); err != nil {
			return err
		}
	}
	return nil
}
