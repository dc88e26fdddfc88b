package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"todoterm/internal/logging"
	"todoterm/internal/store"
	"todoterm/internal/todo"
	"todoterm/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("todoterm %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Optional .env for overriding paths during development
	_ = godotenv.Load()

	logPath := os.Getenv("TODOTERM_LOG")
	if logPath == "" {
		var err error
		logPath, err = logging.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving log path: %v\n", err)
			os.Exit(1)
		}
	}
	log := logging.Setup(logPath)

	dbPath := os.Getenv("TODOTERM_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving data path: %v\n", err)
			os.Exit(1)
		}
	}

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ws := todo.NewWorkspace(st, log)
	defer ws.Close()

	app := ui.NewApp(ws)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
