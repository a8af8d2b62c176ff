package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate can be empty (optional)
	_ = GitCommit
	_ = BuildDate
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	}()

	// simulating build-time ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2024-01-15T10:30:00Z")
	}
}

func TestColored_PlainWhenColorDisabled(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	tests := []string{
		"0.1.0",
		"1.0.0",
		"2.0.0-alpha",
		"1.0.0-beta.1",
		"1.2.3-rc.1+build.123",
		"dev",
	}
	for _, v := range tests {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() with Version %q = %q", v, got)
		}
	}
}

func TestColored_AddsEscapes(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = false

	Version = "1.2.3-dev"
	got := Colored()
	if got == Version {
		t.Fatal("expected colored output")
	}
	if len(got) <= len(Version) {
		t.Fatalf("expected escapes around parts, got %q", got)
	}
}

// BenchmarkColored benchmarks version rendering
func BenchmarkColored(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Colored()
	}
}
