package rules

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"lwcgraph/internal/diag"
)

// Preset names.
const (
	PresetRecommended = "recommended"
	PresetNone        = "none"
)

// Settings maps rule names to severities.
type Settings map[string]diag.Severity

// Recommended enables every rule at warning.
func Recommended() Settings {
	s := make(Settings, len(registry))
	for name := range registry {
		s[name] = diag.SevWarning
	}
	return s
}

// Preset returns the settings of a named preset.
func Preset(name string) (Settings, error) {
	switch name {
	case "", PresetRecommended:
		return Recommended(), nil
	case PresetNone:
		return Settings{}, nil
	}
	return nil, fmt.Errorf("unknown rule preset %q", name)
}

// Apply layers overrides on top of s. Names may carry Prefix; unknown names
// are an error.
func (s Settings) Apply(overrides map[string]diag.Severity) error {
	for name, sev := range overrides {
		r, ok := Lookup(name)
		if !ok {
			return fmt.Errorf("unknown rule %q", name)
		}
		s[r.Name] = sev
	}
	return nil
}

// Enabled returns the rules whose severity is not off, sorted by name.
func (s Settings) Enabled() []Rule {
	names := maps.Keys(s)
	slices.Sort(names)
	out := make([]Rule, 0, len(names))
	for _, n := range names {
		if s[n] == diag.SevOff {
			continue
		}
		if r, ok := Lookup(n); ok {
			out = append(out, r)
		}
	}
	return out
}

// Severity returns the configured severity of a rule, off when unset.
func (s Settings) Severity(name string) diag.Severity {
	return s[name]
}
