package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"smlcheck/internal/driver"
	"smlcheck/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI drives runFn (a Check/CheckParallel closure taking a
// ProgressSink) under a bubbletea progress display, mirroring the teacher's
// compile-with-UI pattern: runFn runs in a goroutine feeding a channel, the
// program runs on the foreground goroutine, and the two results are joined
// once both finish.
func runCheckWithUI(title string, files []string, runFn func(driver.ProgressSink) (*driver.CheckResult, error)) (*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		res, err := runFn(driver.ChannelSink{Ch: events})
		outcomeCh <- checkOutcome{result: res, err: err}
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
