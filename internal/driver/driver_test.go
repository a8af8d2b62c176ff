package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/analyzer/analyzertest"
	"lwcgraph/internal/bundle"
	"lwcgraph/internal/correlate"
	"lwcgraph/internal/diag"
	"lwcgraph/internal/observ"
	"lwcgraph/internal/processor"
	"lwcgraph/internal/rules"
	"lwcgraph/internal/state"
)

const (
	cmpJS   = "import { LightningElement } from 'lwc';\nexport default class Cmp extends LightningElement {}\n"
	cmpHTML = "<template><p>{name}</p></template>\n"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

type harness struct {
	cache *state.Cache
	fake  *analyzertest.Fake
	host  *Host
	timer *observ.Timer
}

func newHarness(settings rules.Settings) *harness {
	h := &harness{
		cache: state.NewCache(0),
		fake: &analyzertest.Fake{Entries: analyzertest.CatalogOf(
			"NO_EVAL_USAGE",
			"NO_COMPOSITION_ON_UNANALYZABLE_PROPERTY_MISSING",
		)},
		timer: observ.NewTimer(),
	}
	h.host = New(Options{
		Processor: processor.New(processor.Options{Cache: h.cache}),
		Source:    correlate.New(h.cache, h.fake, nil, ""),
		Settings:  settings,
		Timer:     h.timer,
	})
	return h
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"lwc/cmp/cmp.js":                cmpJS,
		"lwc/cmp/cmp.html":              cmpHTML,
		"lwc/cmp/cmp.css":               "p {}",
		"lwc/cmp/__tests__/cmp.test.js": "test()",
		"node_modules/x/x.js":           "x",
		".sfdx/tools/y.js":              "y",
		"lwc/other/other.js":            "z",
	})
	files, err := ListFiles([]string{root, filepath.Join(root, "lwc", "cmp", "cmp.js")}, bundle.DefaultExtensions)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := "lwc/cmp/cmp.html lwc/cmp/cmp.js lwc/other/other.js"
	if strings.Join(rel, " ") != want {
		t.Fatalf("ListFiles = %v, want %s", rel, want)
	}

	if _, err := ListFiles([]string{filepath.Join(root, "missing")}, bundle.DefaultExtensions); err == nil {
		t.Fatal("expected error for a missing target")
	}
}

func TestLintRoutesDiagnosticsToOwningFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"cmp/cmp.js":   cmpJS,
		"cmp/cmp.html": cmpHTML,
	})
	settings := rules.Settings{
		"no-eval-usage": diag.SevError,
		"no-composition-on-unanalyzable-property-missing": diag.SevWarning,
	}
	h := newHarness(settings)
	h.fake.Diagnostics = []analyzer.Diagnostic{
		analyzertest.Diag("NO_EVAL_USAGE", "cmp.js", "eval is not allowed", 1, 2, 6),
		analyzertest.Diag("NO_COMPOSITION_ON_UNANALYZABLE_PROPERTY_MISSING", "cmp.html", "name is missing", 0, 13, 17),
	}

	files, err := ListFiles([]string{root}, bundle.DefaultExtensions)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	res, err := h.host.Lint(context.Background(), files)
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(res.Files))
	}

	byFile := map[string][]diag.Message{}
	for _, fr := range res.Files {
		byFile[filepath.Base(fr.Path)] = fr.Messages
	}
	js := byFile["cmp.js"]
	if len(js) != 1 || js[0].RuleID != rules.Prefix+"/no-eval-usage" || js[0].Severity != diag.SevError || js[0].Line != 2 {
		t.Fatalf("unexpected cmp.js messages %+v", js)
	}
	html := byFile["cmp.html"]
	if len(html) != 1 || html[0].Severity != diag.SevWarning || html[0].Line != 1 || html[0].Column != 14 {
		t.Fatalf("unexpected cmp.html messages %+v", html)
	}
	if !res.Bag.HasErrors() || res.Bag.Len() != 2 {
		t.Fatalf("unexpected bag: len=%d", res.Bag.Len())
	}

	if h.cache.Len() != 0 {
		t.Fatalf("post-processing must leave the cache empty, len=%d", h.cache.Len())
	}
	for _, req := range h.fake.Requests() {
		if req.Type != analyzer.TypeBundle || len(req.Files) != 2 {
			t.Fatalf("expected whole-bundle requests, got %+v", req)
		}
	}
	if len(h.timer.Report().Stages) == 0 {
		t.Fatal("expected timings to be recorded")
	}
}

func TestLintTextStagedBundle(t *testing.T) {
	h := newHarness(rules.Settings{"no-eval-usage": diag.SevWarning})
	h.fake.Diagnostics = []analyzer.Diagnostic{
		analyzertest.Diag("NO_EVAL_USAGE", "mem.js", "eval", 0, 0, 4),
	}
	h.host.proc.SetBundleFromContent("mem", "eval('x')", "<template></template>")

	msgs, err := h.host.LintText(context.Background(), "eval('x')", "__placeholder__.js")
	if err != nil {
		t.Fatalf("LintText: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Message != "eval" {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	if h.host.proc.Bundle() != nil {
		t.Fatal("post-processing must clear the staged bundle")
	}
}

func TestLintTextStagedBundleNoMatch(t *testing.T) {
	h := newHarness(rules.Recommended())
	h.host.proc.SetBundleFromContent("mem", "class A {}")

	msgs, err := h.host.LintText(context.Background(), "class B {}", "__placeholder__.js")
	if err != nil || len(msgs) != 0 {
		t.Fatalf("expected nothing, got %+v, %v", msgs, err)
	}
	if len(h.fake.Requests()) != 0 {
		t.Fatal("analyzer must not run when nothing was registered")
	}
}

func TestLintAnalyzerFailureKeepsGoing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a/a.js": "a", "b/b.js": "b"})
	h := newHarness(rules.Settings{"no-eval-usage": diag.SevWarning})
	boom := errors.New("analyzer down")
	h.fake.Err = boom

	res, err := h.host.Lint(context.Background(), []string{
		filepath.Join(root, "a", "a.js"),
		filepath.Join(root, "b", "b.js"),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected analyzer error, got %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("both files must be attempted, got %d", len(res.Files))
	}
	if h.cache.Len() != 0 {
		t.Fatal("failed passes must still be post-processed")
	}
}

func TestLintUnsupportedFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"x/x.css": "p {}"})
	h := newHarness(rules.Recommended())
	_, err := h.host.Lint(context.Background(), []string{filepath.Join(root, "x", "x.css")})
	if !errors.Is(err, bundle.ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension, got %v", err)
	}
}

func TestVirtualFilename(t *testing.T) {
	got := VirtualFilename(filepath.Join("src", "x", "x.js"), 0, "x-1.js")
	want := filepath.Join("src", "x", "x.js", "0_x-1.js")
	if got != want {
		t.Fatalf("VirtualFilename = %q, want %q", got, want)
	}
	if state.KeyFromHostFilename(got) != "x-1.js" {
		t.Fatal("virtual names must strip back to the bundle key")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) final() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]Status{}
	for _, ev := range s.events {
		if ev.Status == StatusDone || ev.Status == StatusError {
			out[ev.File] = ev.Status
		}
	}
	return out
}

func TestLintProgressEvents(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"ok/ok.js": "ok"})
	sink := &recordingSink{}
	h := newHarness(rules.Settings{"no-eval-usage": diag.SevWarning})
	h.host.progress = sink

	okPath := filepath.Join(root, "ok", "ok.js")
	missing := filepath.Join(root, "gone", "gone.js")
	if _, err := h.host.Lint(context.Background(), []string{okPath, missing}); err == nil {
		t.Fatal("expected a read error")
	}
	final := sink.final()
	if final[okPath] != StatusDone || final[missing] != StatusError {
		t.Fatalf("unexpected final statuses %v", final)
	}
	if sink.events[0].Status != StatusQueued {
		t.Fatalf("first event should queue a file, got %+v", sink.events[0])
	}
}

func TestLintParallel(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	var diags []analyzer.Diagnostic
	for i := 0; i < 8; i++ {
		name := "c" + strconv.Itoa(i)
		files[name+"/"+name+".js"] = "export default class " + name + " {}"
		files[name+"/"+name+".html"] = "<template>" + name + "</template>"
		diags = append(diags, analyzertest.Diag("NO_EVAL_USAGE", name+".js", "eval in "+name, 0, 0, 4))
	}
	writeFiles(t, root, files)
	paths, err := ListFiles([]string{root}, bundle.DefaultExtensions)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	cache := state.NewCache(0)
	fake := &analyzertest.Fake{
		Diagnostics: diags,
		Entries:     analyzertest.CatalogOf("NO_EVAL_USAGE"),
	}
	sink := &recordingSink{}
	res, err := LintParallel(context.Background(), paths, ParallelOptions{
		Options: Options{
			Source:   correlate.New(cache, fake, nil, ""),
			Settings: rules.Settings{"no-eval-usage": diag.SevWarning},
			Timer:    observ.NewTimer(),
			Progress: sink,
		},
		Jobs:         4,
		NewProcessor: func() *processor.Processor { return processor.New(processor.Options{Cache: cache}) },
	})
	if err != nil {
		t.Fatalf("LintParallel: %v", err)
	}
	if len(res.Files) != len(paths) {
		t.Fatalf("got %d results, want %d", len(res.Files), len(paths))
	}
	for i, fr := range res.Files {
		if fr.Path != paths[i] {
			t.Fatalf("result %d is %s, want %s", i, fr.Path, paths[i])
		}
		wantLen := 0
		if strings.HasSuffix(fr.Path, ".js") {
			wantLen = 1
		}
		if len(fr.Messages) != wantLen {
			t.Fatalf("%s: got %d messages, want %d", fr.Path, len(fr.Messages), wantLen)
		}
		if wantLen == 1 && !strings.Contains(fr.Messages[0].Message, strings.TrimSuffix(filepath.Base(fr.Path), ".js")) {
			t.Fatalf("%s got another bundle's message %q", fr.Path, fr.Messages[0].Message)
		}
	}
	if res.Bag.Len() != 8 {
		t.Fatalf("bag len = %d, want 8", res.Bag.Len())
	}
	if cache.Len() != 0 {
		t.Fatalf("cache must be empty after the run, len=%d", cache.Len())
	}
	if final := sink.final(); len(final) != len(paths) {
		t.Fatalf("expected a final event per file, got %d", len(final))
	}
}
