package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/elevate/internal/api"
	"github.com/sadopc/elevate/internal/config"
	"github.com/sadopc/elevate/internal/store"
	"github.com/sadopc/elevate/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating data dir: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	userID := cfg.UserID
	if userID == "" {
		userID, err = s.UserID()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving user id: %v\n", err)
			os.Exit(1)
		}
	}

	taskClient := api.NewTaskClient(cfg.BackendURL, userID)
	chatClient := api.NewChatClient(cfg.BackendURL, userID)
	if cfg.RequestTimeout > 0 {
		timeout := time.Duration(cfg.RequestTimeout) * time.Second
		taskClient.SetTimeout(timeout)
		chatClient.SetTimeout(timeout)
	}

	app := tui.NewApp(taskClient, chatClient, s)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
