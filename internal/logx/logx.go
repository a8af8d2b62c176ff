// Package logx builds the structured logger shared by the processor, the
// correlator and the CLI.
package logx

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every record.
const Prefix = "lwcgraph"

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error"). An empty level means warn.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.WarnLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  lvl,
	}), nil
}

// Discard returns a logger that drops everything. Used when a caller passes
// no logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or Discard() when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
