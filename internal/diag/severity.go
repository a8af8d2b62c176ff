package diag

import (
	"fmt"
	"strings"
)

// Severity is the level a host assigns to a rule.
type Severity uint8

const (
	// SevOff disables a rule.
	SevOff Severity = iota
	// SevWarning reports without failing the run.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevOff:
		return "off"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity accepts the host's spellings: off/warn/error or 0/1/2.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return SevOff, nil
	case "warn", "warning", "1":
		return SevWarning, nil
	case "error", "2":
		return SevError, nil
	}
	return SevOff, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if s > SevError {
		return nil, fmt.Errorf("unknown severity %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
