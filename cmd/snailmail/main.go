package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rexxDigital/snailmail/internal/client"
	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/internal/tui"
)

func main() {
	startPath := flag.String("path", "/", "route to open on start")
	apiURL := flag.String("api", "", "backend URL, overrides the config")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.Client.APIURL = *apiURL
	}

	logFile, err := logging.ToFile(cfg.Client.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logging.Log.WithField("api", cfg.Client.APIURL).Info("Starting SnailMail")

	api := client.New(cfg.Client.APIURL, cfg.Client.Timeout)
	if _, err := tea.NewProgram(tui.NewBaseModel(api, cfg.Client.Sender, *startPath), tea.WithAltScreen()).Run(); err != nil {
		logging.Log.WithError(err).Error("SnailMail exited")
		os.Exit(1)
	}
}
