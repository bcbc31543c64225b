package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"glint/internal/config"
	"glint/internal/eventbus"
	"glint/internal/history"
	"glint/internal/launcher"
	"glint/internal/ui"
)

func main() {
	// Set up logging
	logFile, err := os.OpenFile("glint.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Load configuration, writing defaults on first run
	configSvc := config.NewConfigService()
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}

	// Open the history store
	store, err := history.Open(ctx, cfg.History.DBPath)
	if err != nil {
		fmt.Printf("Error opening history store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Create event bus
	bus := eventbus.New()
	defer bus.Stop()

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, store)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithReportFocus())

	// Set up event forwarding to UI. All daemon events funnel through one
	// channel so the controller sees them in publish order.
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	bus.Subscribe(eventbus.EventDaemonReady, forward)
	bus.Subscribe(eventbus.EventDaemonResponse, forward)
	bus.Subscribe(eventbus.EventDaemonClosed, forward)
	bus.Subscribe(eventbus.EventError, forward)
	bus.Subscribe(eventbus.EventHistoryPersisted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.HistoryPersistedEvent); ok {
			log.Printf("History persisted (%s): %s", event.Scope, event.Record)
		}
	})

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Start the search daemon
	daemonSvc := launcher.NewService(bus, cfg.Daemon.Command, cfg.Daemon.Args)
	if err := daemonSvc.Start(ctx); err != nil {
		fmt.Printf("Error starting search daemon: %v\n", err)
		os.Exit(1)
	}

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup
	close(eventChan)
	cancel()
}
