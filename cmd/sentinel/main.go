package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/posentinel/sentinel/internal/app"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/store"
)

func main() {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentinel: %v\n", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(dbPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentinel: opening store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	root, err := app.New(cfg, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentinel: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sentinel: %v\n", err)
		os.Exit(1)
	}
}

// dbPath puts the database next to the config file, honoring the
// SENTINEL_DB override for ad-hoc runs.
func dbPath() string {
	if p := os.Getenv("SENTINEL_DB"); p != "" {
		return p
	}
	dir := filepath.Dir(model.DefaultConfigPath())
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "sentinel.db")
}
