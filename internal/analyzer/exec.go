package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrNoCommand is returned when Exec has no command configured.
var ErrNoCommand = errors.New("analyzer command is not configured")

// Exec runs an external analyzer process. Each Analyze call runs
// "<Command...> analyze" with the encoded Request on stdin and reads
// {"diagnostics": [...]} from stdout. The catalog comes from
// "<Command...> catalog" and is fetched once.
type Exec struct {
	Command []string
	Wire    Wire
	// Timeout bounds a single subprocess run; zero means no bound.
	Timeout time.Duration
	Dir     string
	// Env is appended to the current environment.
	Env []string

	mu      sync.Mutex
	catalog Catalog
}

// Analyze implements Analyzer.
func (e *Exec) Analyze(ctx context.Context, req Request) ([]Diagnostic, error) {
	payload, err := e.Wire.marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request %s: %w", req.Name, err)
	}
	out, err := e.run(ctx, "analyze", payload)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", req.Name, err)
	}
	var resp analyzeResponse
	if err := e.Wire.unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("decode diagnostics for %s: %w", req.Name, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("analyze %s: %s", req.Name, resp.Error)
	}
	return resp.Diagnostics, nil
}

// Catalog implements Analyzer. A failed fetch is not cached.
func (e *Exec) Catalog(ctx context.Context) (Catalog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog != nil {
		return e.catalog, nil
	}
	out, err := e.run(ctx, "catalog", nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	cat := Catalog{}
	if err := e.Wire.unmarshal(out, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	e.catalog = cat
	return cat, nil
}

func (e *Exec) run(ctx context.Context, verb string, stdin []byte) ([]byte, error) {
	if len(e.Command) == 0 || e.Command[0] == "" {
		return nil, ErrNoCommand
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, e.Command[1:]...), verb)
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.Dir = e.Dir
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
