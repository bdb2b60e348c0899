// ABOUTME: CLI entry point for fold-console, the fold platform admin client
// ABOUTME: Wires config, stores, the request gateway, and subcommand dispatch

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/2389/fold-console/internal/authgw"
	"github.com/2389/fold-console/internal/client"
	"github.com/2389/fold-console/internal/config"
	"github.com/2389/fold-console/internal/console"
	"github.com/2389/fold-console/internal/store"
)

const banner = `
  __       _     _                                   _
 / _| ___ | | __| |       ___ ___  _ __  ___  ___ | | ___
| |_ / _ \| |/ _' |_____ / __/ _ \| '_ \/ __|/ _ \| |/ _ \
|  _| (_) | | (_| |_____| (_| (_) | | | \__ \ (_) | |  __/
|_|  \___/|_|\__,_|      \___\___/|_| |_|___/\___/|_|\___|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fold-console: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	app, err := buildApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fold-console: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	cmd := os.Args[1]
	args := os.Args[2:]

	if err := app.run(cmd, args); err != nil {
		if errors.Is(err, authgw.ErrAuthCancelled) {
			// Declining to authenticate is not an error worth a stack
			// of red text
			fmt.Fprintln(os.Stderr, "login cancelled")
			os.Exit(1)
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config path from the environment or the
// default locations.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("FOLD_CONSOLE_CONFIG"); path != "" {
		return config.Load(path)
	}

	candidates := []string{"console.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "fold", "console.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return config.Load(path)
		}
	}
	return nil, fmt.Errorf("no config file found (set FOLD_CONSOLE_CONFIG or create console.yaml)")
}

// setupLogger builds the default logger from config.
func setupLogger(cfg config.Logging) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// app holds the wired console: the gateway, the API client, and the
// stores behind them.
type app struct {
	cfg    *config.Config
	api    *client.Client
	creds  *authgw.CredentialStore
	origin string

	durable *store.SQLiteKV
}

// buildApp wires the full stack: transport → gateway → client, with the
// terminal prompt as the challenge collector.
func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	consoleURL, err := url.Parse(cfg.Console.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing console URL: %w", err)
	}

	classifier, err := authgw.NewClassifier(cfg.Console.URL, cfg.Auth.ProtectedPrefixes)
	if err != nil {
		return nil, err
	}
	origin := classifier.Origin()

	durable, err := store.NewSQLiteKV(cfg.Storage.StatePath)
	if err != nil {
		// Durable state is best-effort: losing the remembered username
		// must not take the console down
		logger.Warn("durable state store unavailable", "error", err)
		durable = nil
	}

	var durableKV store.KV
	if durable != nil {
		durableKV = durable
	}

	creds := authgw.NewCredentialStore(store.NewMemoryKV(), durableKV, logger)
	creds.Seed(origin, consoleURL)

	transport := &http.Client{Timeout: cfg.Console.Timeout}
	probe := authgw.NewProbe(transport, origin+cfg.Console.WhoamiPath, logger)
	prompt := console.NewPrompt(probe, creds, logger)
	coordinator := authgw.NewCoordinator(origin, prompt, creds, logger)
	gateway := authgw.New(transport, classifier, creds, coordinator, logger)

	return &app{
		cfg:     cfg,
		api:     client.New(gateway, origin, logger),
		creds:   creds,
		origin:  origin,
		durable: durable,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.durable != nil {
		a.durable.Close()
	}
}

// run dispatches a subcommand.
func (a *app) run(cmd string, args []string) error {
	ctx := context.Background()

	switch cmd {
	case "login":
		return a.cmdLogin(ctx)
	case "logout":
		return a.cmdLogout()
	case "status":
		return a.cmdStatus(ctx)
	case "projects":
		return a.cmdProjects(ctx, args)
	case "kb":
		return a.cmdKB(ctx, args)
	case "crawler":
		return a.cmdCrawler(ctx, args)
	case "backup":
		return a.cmdBackup(ctx, args)
	case "voice":
		return a.cmdVoice(ctx, args)
	case "dashboard":
		return a.cmdDashboard(ctx, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage() {
	fmt.Print(banner)
	fmt.Println(`
Usage: fold-console <command> [args]

Commands:
  login                           Authenticate and cache credentials
  logout                          Clear cached credentials and remembered identity
  status                          Show session and platform status
  projects [list|show <id>]       Manage tenant projects
  kb <project> [folders]          Browse knowledge-base folders
  kb <project> push <file.md>     Push a markdown article
  kb <project> rm <article-id>    Delete an article
  crawler <project> [status]      Show crawler state
  crawler <project> apply <toml>  Start a crawl from a TOML plan
  crawler <project> stop          Stop the running crawl
  backup <project> [list]         List backups
  backup <project> schedule <cron> <retention>
  backup <project> rm <id>        Delete a backup
  voice <project> [status]        Voice training status
  voice <project> train <set-id>  Start voice training
  dashboard <project> [window]    Usage statistics (default window 24h)

Environment:
  FOLD_CONSOLE_CONFIG  Path to console.yaml`)
}
