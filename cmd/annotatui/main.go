package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tianyangh/annotatui/internal/audit"
	"github.com/tianyangh/annotatui/internal/auth"
	"github.com/tianyangh/annotatui/internal/config"
	"github.com/tianyangh/annotatui/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if len(cfg.Annotators) == 0 {
		log.Fatal("config: no annotators configured; add [[annotators]] entries to config.toml")
	}

	entries := make([]auth.Entry, len(cfg.Annotators))
	for i, an := range cfg.Annotators {
		entries[i] = auth.Entry{Name: an.Name, Secret: an.Secret, Worklist: an.Worklist}
	}
	authenticator := auth.New(entries)

	// The event log is advisory: run without it rather than refusing to
	// start.
	var auditStore *audit.Store
	if err := os.MkdirAll(filepath.Dir(cfg.Audit.Path), 0o755); err != nil {
		log.Printf("warn: audit log disabled: %v", err)
	} else if auditStore, err = audit.Open(cfg.Audit.Path, cfg.Audit.Migrations); err != nil {
		log.Printf("warn: audit log disabled: %v", err)
		auditStore = nil
	}
	if auditStore != nil {
		defer auditStore.Close()
	}

	p := tea.NewProgram(tui.New(ctx, authenticator, auditStore), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
