package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/diag"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Namespace != "c" || cfg.Cache.Capacity <= 0 || cfg.Analyzer.Wire != analyzer.WireJSON {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	settings, err := cfg.RuleSettings()
	if err != nil {
		t.Fatalf("RuleSettings: %v", err)
	}
	if settings.Severity("no-eval-usage") != diag.SevWarning {
		t.Fatal("recommended preset should warn on no-eval-usage")
	}
	if _, err := cfg.NewAnalyzer(); !errors.Is(err, analyzer.ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
namespace = "acme"
log_level = "debug"

[extensions]
script = [".js", ".mjs"]

[cache]
capacity = 8

[analyzer]
command = ["node", "bridge.js"]
wire = "msgpack"
timeout = "45s"

[rules]
preset = "none"
"no-eval-usage" = "error"
"@salesforce/lwc-graph-analyzer/no-multiple-template-files" = 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path || cfg.Root() != dir {
		t.Fatalf("unexpected path %q root %q", cfg.Path, cfg.Root())
	}
	if cfg.Namespace != "acme" || cfg.LogLevel != "debug" || cfg.Cache.Capacity != 8 {
		t.Fatalf("unexpected scalars %+v", cfg)
	}
	if len(cfg.Extensions.Script) != 2 || cfg.Extensions.Template[0] != ".html" {
		t.Fatalf("unexpected extensions %+v", cfg.Extensions)
	}
	if cfg.Analyzer.Wire != analyzer.WireMsgpack || cfg.Analyzer.Timeout != 45*time.Second {
		t.Fatalf("unexpected analyzer %+v", cfg.Analyzer)
	}

	settings, err := cfg.RuleSettings()
	if err != nil {
		t.Fatalf("RuleSettings: %v", err)
	}
	enabled := settings.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled rules, got %+v", enabled)
	}
	if settings.Severity("no-eval-usage") != diag.SevError || settings.Severity("no-multiple-template-files") != diag.SevWarning {
		t.Fatalf("unexpected severities %v", settings)
	}

	exec, err := cfg.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	if exec.Dir != dir || exec.Command[1] != "bridge.js" || exec.Wire != analyzer.WireMsgpack {
		t.Fatalf("unexpected exec %+v", exec)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "namespace = ", "failed to parse TOML"},
		{"empty namespace", `namespace = " "`, "namespace"},
		{"bad capacity", "[cache]\ncapacity = 0", "capacity"},
		{"bad wire", "[analyzer]\nwire = \"xml\"", "wire"},
		{"bad timeout", "[analyzer]\ntimeout = \"soon\"", "invalid duration"},
		{"bad severity", "[rules]\n\"no-eval-usage\" = \"loud\"", "no-eval-usage"},
		{"unknown rule", "[rules]\n\"no-such-rule\" = \"warn\"", "no-such-rule"},
		{"unknown preset", "[rules]\npreset = \"strict\"", "strict"},
		{"overlap", "[extensions]\ntemplate = [\".js\"]", "extensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `namespace = "x"`)
	nested := filepath.Join(root, "force-app", "lwc", "cmp")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, ok, err := Find(nested)
	if err != nil || !ok || found != path {
		t.Fatalf("Find = %q, %v, %v; want %q", found, ok, err, path)
	}

	cfg, err := Discover(nested)
	if err != nil || cfg.Namespace != "x" {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// a config file above the temp dir would leak in here
	if cfg.Path == "" && cfg.Namespace != "c" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
