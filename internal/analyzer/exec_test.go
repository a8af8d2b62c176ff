package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

// helperCommand re-runs the test binary as a fake analyzer process.
func helperCommand(mode string) []string {
	return []string{os.Args[0], "-test.run=TestHelperProcess", "--", mode}
}

func helperEnv() []string {
	return []string{"LWCGRAPH_WANT_HELPER_PROCESS=1"}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("LWCGRAPH_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: -- <mode> <verb>")
		os.Exit(2)
	}
	mode, verb := args[1], args[2]
	wire := WireJSON
	if strings.HasPrefix(mode, "msgpack") {
		wire = WireMsgpack
	}

	switch {
	case strings.HasSuffix(mode, "fail"):
		fmt.Fprintln(os.Stderr, "analyzer exploded")
		os.Exit(3)
	case strings.HasSuffix(mode, "sleep"):
		time.Sleep(5 * time.Second)
		return
	}

	var out any
	switch verb {
	case "catalog":
		out = Catalog{"NO_EVAL_USAGE": {Code: "NO_EVAL_USAGE"}}
	case "analyze":
		data, _ := io.ReadAll(os.Stdin)
		var req Request
		if err := wire.Decode(data, &req); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(4)
		}
		var diags []Diagnostic
		for name := range req.Files {
			diags = append(diags, Diagnostic{
				Code:    Code{Value: "NO_EVAL_USAGE", Target: Target{Path: name}},
				Message: req.Type + ":" + req.Namespace + ":" + req.Name,
			})
		}
		out = analyzeResponse{Diagnostics: diags}
	}
	data, err := wire.Encode(out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(5)
	}
	os.Stdout.Write(data)
}

func TestExecAnalyze(t *testing.T) {
	for _, w := range []Wire{WireJSON, WireMsgpack} {
		t.Run(string(w), func(t *testing.T) {
			e := &Exec{Command: helperCommand(string(w)), Wire: w, Env: helperEnv()}
			diags, err := e.Analyze(context.Background(), Request{
				Type: TypeFile, Namespace: "c", Name: "x",
				Files: map[string]string{"x.js": "eval('1')"},
			})
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got %d", len(diags))
			}
			d := diags[0]
			if d.Code.Target.Path != "x.js" || d.Message != "file:c:x" {
				t.Fatalf("unexpected diagnostic %+v", d)
			}
		})
	}
}

func TestExecCatalogMemoized(t *testing.T) {
	e := &Exec{Command: helperCommand("json"), Env: helperEnv()}
	cat, err := e.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if _, ok := cat.Lookup("NO_EVAL_USAGE"); !ok {
		t.Fatalf("unexpected catalog %v", cat)
	}
	// a broken command must not be consulted again
	e.Command = []string{"/nonexistent/analyzer"}
	again, err := e.Catalog(context.Background())
	if err != nil || len(again) != len(cat) {
		t.Fatalf("expected memoized catalog, got %v, %v", again, err)
	}
}

func TestExecFailure(t *testing.T) {
	e := &Exec{Command: helperCommand("json-fail"), Env: helperEnv()}
	_, err := e.Analyze(context.Background(), Request{Name: "x"})
	if err == nil || !strings.Contains(err.Error(), "analyzer exploded") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestExecTimeout(t *testing.T) {
	e := &Exec{Command: helperCommand("json-sleep"), Env: helperEnv(), Timeout: 50 * time.Millisecond}
	_, err := e.Analyze(context.Background(), Request{Name: "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestExecNoCommand(t *testing.T) {
	e := &Exec{}
	if _, err := e.Catalog(context.Background()); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}
