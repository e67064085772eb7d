package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"watchcheck/internal/suite"
	"watchcheck/internal/ui"
)

type runOutcome struct {
	results []suite.Result
	err     error
}

func runSuiteWithUI(ctx context.Context, title string, runner *suite.Runner) ([]suite.Result, error) {
	events := make(chan suite.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	cases := make([]string, 0, len(runner.Suite.Config.Cases))
	for _, c := range runner.Suite.Config.Cases {
		cases = append(cases, c.Name)
	}

	go func() {
		r := *runner
		r.Sink = suite.ChannelSink{Ch: events}
		results, err := r.Run(ctx)
		outcomeCh <- runOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, cases, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
