package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lwcgraph/internal/prof"
)

// setupProfiling starts the profilers named by the persistent flags. The
// returned session is nil when none was requested; Stop on it is a no-op.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()

	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	opts := prof.Options{CPUProfile: cpuProfile, MemProfile: memProfile, Trace: tracePath}
	if !opts.Enabled() {
		return nil, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return session, nil
}
