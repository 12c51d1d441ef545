// Concierge - terminal client for the conversational commerce assistant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/verato-labs/concierge/internal/auth"
	"github.com/verato-labs/concierge/internal/catalog"
	"github.com/verato-labs/concierge/internal/config"
	"github.com/verato-labs/concierge/internal/history"
	"github.com/verato-labs/concierge/internal/session"
	"github.com/verato-labs/concierge/internal/shop"
	"github.com/verato-labs/concierge/internal/tui"
)

func main() {
	logout := flag.Bool("logout", false, "log out and clear stored credentials")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Logs go to a file: stdout belongs to the UI.
	logPath := filepath.Join(filepath.Dir(cfg.HistoryDBPath), "concierge.log")
	if logFile, err := openLogFile(logPath); err == nil {
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}

	creds, err := auth.Load(cfg.CredentialsPath)
	if err != nil {
		if errors.Is(err, auth.ErrNoCredentials) {
			fmt.Fprintln(os.Stderr, "No stored credentials. Log in through the web app first or write", cfg.CredentialsPath)
			os.Exit(1)
		}
		slog.Error("Failed to load credentials", "error", err)
		os.Exit(1)
	}

	if *logout {
		if err := auth.Logout(context.Background(), cfg.ServerURL, cfg.CredentialsPath, creds.Token); err != nil {
			slog.Error("Failed to clear credentials", "error", err)
			os.Exit(1)
		}
		fmt.Println("Logged out.")
		return
	}

	slog.Info("Starting client", "server", cfg.ServerURL, "dev", cfg.IsDevelopment())

	repo, err := history.NewSQLite(cfg.HistoryDBPath)
	if err != nil {
		slog.Error("Failed to initialize transcript store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close transcript store", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Transcript store health check failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lookup := catalog.NewClient(cfg.ServerURL, cfg.LookupTimeout)
	renderer := tui.NewRenderer()
	sess := session.New(ctx, session.Options{
		Token:    creds.Token,
		Renderer: renderer,
		Resolver: catalog.NewResolver(lookup),
		Shop:     shop.NewState(cfg.StackSize),
		History:  repo,
	})

	program := tea.NewProgram(tui.NewModel(sess, creds.Profile()), tea.WithAltScreen())
	renderer.Attach(program)

	// Dial after the renderer is attached so early notices reach the UI.
	go func() {
		ch, err := sess.Connect(ctx, cfg.WebSocketURL())
		if err != nil {
			slog.Error("Failed to connect", "error", err)
			return
		}
		<-ctx.Done()
		if closeErr := ch.Close(); closeErr != nil {
			slog.Debug("Failed to close channel", "error", closeErr)
		}
	}()

	if _, err := program.Run(); err != nil {
		slog.Error("UI terminated", "error", err)
		os.Exit(1)
	}
	stop()
	slog.Info("Client stopped")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
