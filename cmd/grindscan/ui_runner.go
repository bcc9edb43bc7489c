package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"grindscan/internal/driver"
	"grindscan/internal/ui"
)

type scanOutcome struct {
	results []driver.ReportResult
	err     error
}

func runScanWithUI(ctx context.Context, title string, reports []string, opts driver.ScanOptions) ([]driver.ReportResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.ScanReports(ctx, reports, opts)
		outcomeCh <- scanOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, reports, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI мог выйти раньше (ctrl+c): дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
