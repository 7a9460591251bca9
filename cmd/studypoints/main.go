package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"studypoints/internal/state"
	"studypoints/internal/tui"
	"studypoints/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const defaultAPIURL = "http://localhost:8080"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// resolveAPIURL returns the backend base URL: env override or the default,
// with any trailing slash trimmed.
func resolveAPIURL() string {
	apiURL := os.Getenv("STUDYPOINTS_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return strings.TrimRight(apiURL, "/")
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("studypoints " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	c := client.New(resolveAPIURL())
	store := state.NewStore(c)
	study := state.NewStudyController(store)
	shop := state.NewPurchaseController(store)

	app := tui.NewApp(store, study, shop)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func printHelp() {
	fmt.Println(`studypoints — terminal client for the study rewards service

usage:
  studypoints            launch the app
  studypoints version    print the version
  studypoints help       show this help

environment:
  STUDYPOINTS_API_URL    backend base URL (default ` + defaultAPIURL + `)

keys (inside the app):
  tab        next field        s   start studying
  enter      submit / buy      e   end studying
  ctrl+s     sign up           r   refresh
  j/k        move selection    c   copy reward
  l          log out           q   quit`)
}
