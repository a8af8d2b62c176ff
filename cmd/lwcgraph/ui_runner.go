package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lwcgraph/internal/driver"
	"lwcgraph/internal/ui"
)

type lintOutcome struct {
	result *driver.Result
	err    error
}

// runLintWithUI runs lint in the background and renders its progress
// events until the run finishes.
func runLintWithUI(ctx context.Context, title string, files []string, opts driver.ParallelOptions) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LintParallel(ctx, files, optsCopy)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
