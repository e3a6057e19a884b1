// cmd/postcard/main.go
//
// This is the entry point for the postcard CLI.
// Flow:
// 1. Ensure the .postcard directory and default config exist
// 2. Load configuration and open the activity logbook
// 3. Launch the form TUI

package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/postcard/internal/config"
	"github.com/kingrea/postcard/internal/logbook"
	"github.com/kingrea/postcard/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitPostcardDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .postcard directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "postcard.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}
	lb.Info("Session opened")

	p := tea.NewProgram(
		tui.NewApp(cfg, lb),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
