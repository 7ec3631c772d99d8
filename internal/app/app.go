// Package app is the main entrypoint into the application, responsible for
// configuring and starting the application, services, dependency injection,
// etc.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/top"
	"github.com/finchtui/finch/internal/version"
)

// Start parses configuration and runs the TUI, blocking until the user quits.
func Start(stdout, stderr io.Writer, args []string) error {
	cfg, err := parse(stderr, args)
	if err != nil {
		return err
	}

	if cfg.Version {
		fmt.Fprintln(stdout, "finch", version.Version)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	app, model, err := newApp(cfg)
	if err != nil {
		cancel()
		return err
	}

	p := tea.NewProgram(
		model,
		// use the full size of the terminal with its "alternate screen buffer"
		tea.WithAltScreen(),
	)

	wait := app.start(ctx, p)
	defer func() {
		// Cancelling closes the subscriptions, letting the relays drain.
		cancel()
		wait()
	}()

	// Blocks until user quits
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// app holds the services backing the TUI.
type app struct {
	logger        *logging.Logger
	notifications *notification.Service
}

func newApp(cfg config) (*app, tea.Model, error) {
	logger := logging.NewLogger(cfg.loggingOptions)
	slog.SetDefault(logger.Logger)

	client, err := api.NewClient(cfg.Address, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("constructing api client: %w", err)
	}

	notifications := notification.NewService(notification.ServiceOptions{
		Client:       client,
		Logger:       logger,
		PollInterval: cfg.PollInterval,
	})

	var initialEvent tui.Event
	if cfg.Open != "" {
		event, ok := tui.ParseFragment(cfg.Open)
		if !ok {
			// Dropped rather than fatal: an unrecognized fragment leaves the
			// default tab in place.
			logger.Warn("unrecognized content for --open", "open", cfg.Open)
		}
		initialEvent = event
	}

	model, err := top.New(top.Options{
		Client:        client,
		Logger:        logger,
		Notifications: notifications,
		DefaultTab:    cfg.DefaultTab,
		InitialEvent:  initialEvent,
		Debug:         cfg.Debug,
	})
	if err != nil {
		return nil, nil, err
	}

	return &app{
		logger:        logger,
		notifications: notifications,
	}, model, nil
}

// sender is the TUI's subset of tea.Program, for relaying messages.
type sender interface {
	Send(tea.Msg)
}

// start relays service events to the TUI and starts notification polling.
// The returned func blocks until the relays have drained, which happens once
// ctx is cancelled.
func (a *app) start(ctx context.Context, s sender) func() {
	var wg sync.WaitGroup

	logEvents := a.logger.Subscribe(ctx)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range logEvents {
			s.Send(ev)
		}
	}()

	statsEvents := a.notifications.Watch(ctx)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range statsEvents {
			s.Send(ev)
		}
	}()

	a.notifications.StartPolling(ctx)

	return wg.Wait
}
