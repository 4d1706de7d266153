// Aetheris TUI - A terminal interface for AI chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aetheris-tui/internal/auth"
	"github.com/jeranaias/aetheris-tui/internal/backend"
	"github.com/jeranaias/aetheris-tui/internal/config"
	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/session"
	"github.com/jeranaias/aetheris-tui/internal/storage"
	"github.com/jeranaias/aetheris-tui/internal/ui"
	"github.com/jeranaias/aetheris-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "", "tui":
		runTUI()
	case "register":
		runRegister()
	case "mfa":
		runEnrollMFA()
	case "version", "--version", "-v":
		fmt.Printf("aetheris %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: aetheris [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  tui       Start the chat interface (default)")
	fmt.Println("  register  Create a local account")
	fmt.Println("  mfa       Enroll a TOTP second factor")
	fmt.Println("  version   Print version information")
	fmt.Println("  help      Show this help")
}

// =============================================================================
// TUI STARTUP
// =============================================================================

func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, closeLog := setupLogging(dataDir)
	defer closeLog()

	user := signIn(dataDir)

	store := openStore(cfg)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	client := backend.NewClient(cfg.Backend.BaseURL).
		WithTimeout(time.Duration(cfg.Backend.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.Backend.MaxRetries)

	manager := session.NewManager(client, store, session.Options{
		SurfaceErrors: cfg.Session.SurfaceErrors,
	})
	manager.SetLogger(logger)

	appModel := ui.New(manager, store, ui.Options{
		User:      user,
		Theme:     resolveTheme(cfg, store),
		Markdown:  cfg.UI.Markdown,
		ExportDir: dataDir,
	})

	program := tea.NewProgram(appModel, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Live-reload the backend URL and session options on config edits.
	if path, err := config.ConfigPath(); err == nil {
		if watcher, werr := config.NewWatcher(path, func(*config.Config) {
			logger.Printf("config reloaded; restart to apply connection changes")
		}); werr == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging directs the standard logger at a file in the data dir.
func setupLogging(dataDir string) (*log.Logger, func()) {
	path := filepath.Join(dataDir, "aetheris.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return log.New(io.Discard, "", log.LstdFlags), func() {}
	}
	log.SetOutput(f)
	return log.New(f, "", log.LstdFlags), func() { f.Close() }
}

// signIn authenticates the user before the TUI starts.
func signIn(dataDir string) *model.User {
	creds, err := auth.NewCredentialStore(filepath.Join(dataDir, "credentials.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	user, err := auth.PromptLogin(creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return user
}

// openStore builds the configured persistence backend.
func openStore(cfg *config.Config) storage.Store {
	switch cfg.Storage.Backend {
	case "sqlite":
		path, err := cfg.ResolveSQLitePath()
		if err == nil {
			store, serr := storage.NewSQLiteStore(path)
			if serr == nil {
				return store
			}
			err = serr
		}
		fmt.Fprintf(os.Stderr, "Warning: sqlite store unavailable (%v), falling back to snapshot\n", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSnapshotStore(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}

// resolveTheme picks the starting theme: persisted preference first,
// then config, then terminal detection.
func resolveTheme(cfg *config.Config, store storage.Store) model.Theme {
	if theme, err := store.LoadTheme(); err == nil {
		return theme
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("theme preference unavailable: %v", err)
	}

	theme := model.Theme(cfg.UI.Theme)
	if theme.Valid() {
		return theme
	}
	return styles.DetectVariant()
}

// =============================================================================
// ACCOUNT COMMANDS
// =============================================================================

func runRegister() {
	creds := mustCredentialStore()
	user, err := auth.PromptRegister(creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Account created for %s <%s>\n", user.Username, user.Email)
}

func runEnrollMFA() {
	creds := mustCredentialStore()

	var identifier, password string
	fmt.Print("Email or username: ")
	fmt.Scanln(&identifier)
	fmt.Print("Password: ")
	fmt.Scanln(&password)

	secret, url, err := creds.EnrollTOTP(identifier, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("TOTP enrolled. Add this secret to your authenticator app:")
	fmt.Println("  Secret:", secret)
	fmt.Println("  URL:   ", url)
}

func mustCredentialStore() *auth.CredentialStore {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	creds, err := auth.NewCredentialStore(filepath.Join(dataDir, "credentials.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return creds
}
