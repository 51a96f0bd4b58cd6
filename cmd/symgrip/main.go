package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"symgrip/internal/config"
	"symgrip/internal/domain"
	"symgrip/internal/eventbus"
	"symgrip/internal/index"
	"symgrip/internal/nav"
	"symgrip/internal/presenter"
	"symgrip/internal/ui"
)

// projectConfigName is the per-workspace config file looked up before the
// global one.
const projectConfigName = ".symgrip.toml"

func main() {
	dirFlag := flag.String("d", "", "workspace directory to search (defaults to the current directory)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-d dir] [SYMBOL]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Browse definitions and usages of Go symbols. With SYMBOL, jump\n")
		fmt.Fprintf(flag.CommandLine.Output(), "straight to an unambiguous definition or open the usage browser.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("symgrip.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
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

	// Create event bus
	bus := eventbus.New()

	// Load configuration: a project-local file wins over the global one
	configSvc := config.NewConfigServiceWithBus(bus)
	cfg := loadConfig(configSvc, *dirFlag)
	if *dirFlag != "" {
		cfg.BaseDir = *dirFlag
	}
	if abs, err := filepath.Abs(cfg.BaseDir); err == nil {
		cfg.BaseDir = abs
	}

	// Initialize services
	host := ui.NewSessionHost()
	dispatcher := ui.NewTeaDispatcher()
	opener := ui.NewExternalOpener(cfg.UISettings.EditorOnNavigate)
	engine := index.NewEngine(bus, host, cfg)
	resolver := presenter.NewResolver(nav.NewResolver(opener), host, dispatcher)

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, host, opener)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)
	dispatcher.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			log.Println("Event channel full, dropping event")
		}
	}
	bus.Subscribe(eventbus.EventSearchStarted, forward)
	bus.Subscribe(eventbus.EventSearchCompleted, forward)
	bus.Subscribe(eventbus.EventNavigated, forward)
	bus.Subscribe(eventbus.EventError, forward)

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// With a symbol argument, resolve it as soon as the UI is up: a single
	// unambiguous definition opens directly, anything else lands in the
	// usage browser.
	if symbol := flag.Arg(0); symbol != "" {
		go func() {
			items, sum, err := engine.Collect(ctx, symbol)
			if err != nil {
				log.Printf("Collecting definitions of %q failed: %v", symbol, err)
				bus.Publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("Search for %q failed", symbol),
					Err:     err,
				})
				return
			}
			moved, err := resolver.NavigateTo(ctx, domain.SearchTitle(symbol), items)
			if err != nil {
				log.Printf("Navigating to %q failed: %v", symbol, err)
				bus.Publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("Could not navigate to %q", symbol),
					Err:     err,
				})
				return
			}
			if !moved {
				bus.Publish(eventbus.SearchCompletedEvent{
					Query:       symbol,
					Definitions: sum.Definitions,
					References:  sum.References,
					Suggestion:  sum.Suggestion,
				})
			}
		}()
	}

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup
	cancel()
	engine.Stop()
	close(eventChan)
}

// loadConfig loads the project config if present, otherwise the global
// one, otherwise defaults.
func loadConfig(svc config.ConfigService, dir string) *config.Config {
	if dir == "" {
		dir = "."
	}
	projectPath := filepath.Join(dir, projectConfigName)
	if _, err := os.Stat(projectPath); err == nil {
		cfg, err := svc.LoadFromPath(projectPath)
		if err == nil {
			return cfg
		}
		log.Printf("Error loading %s: %v", projectPath, err)
	}

	cfg, err := svc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}
