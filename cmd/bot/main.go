// cmd/bot/main.go
//
// Webhook bot – process entry point.
//
// Boot sequence
// -------------
//
//  1. Load .env (optional, dev convenience).
//
//  2. Resolve configuration: defaults → optional file (-config flag or
//     ZALO_BOT_CONFIG_PATH) → ZALO_BOT_* environment overrides.
//
//  3. Install the process-wide logger per logging.filter/format.
//
//  4. Resolve the webhook secret (literal or vault: reference) and
//     construct the signature verifier.
//
//  5. Optionally open the delivery journal (ZALO_BOT_JOURNAL_DSN) and
//     the mini-app context (ZALO_BOT_MINIAPP_APP_ID / _OA_ID).
//
//  6. Serve /webhook, /healthz, /miniapp/handshake, and /metrics until
//     SIGINT/SIGTERM.
//
// Any Config-kind failure aborts startup with a non-zero exit; the
// process never starts half-configured.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/vuhn/zalokit/internal/config"
	"github.com/vuhn/zalokit/internal/journal"
	"github.com/vuhn/zalokit/internal/logger"
	"github.com/vuhn/zalokit/internal/miniapp"
	"github.com/vuhn/zalokit/internal/secrets"
	"github.com/vuhn/zalokit/internal/server"
	"github.com/vuhn/zalokit/internal/webhook"
)

const (
	secretVar     = "ZALO_BOT_WEBHOOK_SECRET"
	journalDSNVar = "ZALO_BOT_JOURNAL_DSN"
	appIDVar      = "ZALO_BOT_MINIAPP_APP_ID"
	oaIDVar       = "ZALO_BOT_MINIAPP_OA_ID"
	listenVar     = "ZALO_BOT_LISTEN_ADDR"

	defaultListen = ":8080"
	secretTTL     = 5 * time.Minute
)

func main() {
	if err := run(); err != nil {
		// The logger may not be installed yet (config errors), so the
		// failure goes to stderr unconditionally.
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML or YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	loader := config.New(config.DefaultPrefix)
	if *configPath != "" {
		loader = loader.WithFile(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	//
	// ── 2.  Logging ─────────────────────────────────────────────────────
	//
	log, err := logger.Install(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Infow("bootstrap",
		"environment", cfg.Environment,
		"filter", cfg.Logging.Filter,
		"format", cfg.Logging.Format,
	)

	//
	// ── 3.  Trust boundary ──────────────────────────────────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := secrets.NewResolver(secretTTL)
	secret, err := resolver.Resolve(ctx, os.Getenv(secretVar))
	if err != nil {
		return err
	}
	verifier, err := webhook.NewVerifier([]byte(secret))
	if err != nil {
		return err
	}

	//
	// ── 4.  Optional collaborators ──────────────────────────────────────
	//
	var rec server.Recorder
	if dsn := os.Getenv(journalDSNVar); dsn != "" {
		j, err := journal.Open(dsn)
		if err != nil {
			return err
		}
		defer j.Close()
		if err := j.EnsureSchema(ctx); err != nil {
			return err
		}
		rec = j
		log.Infow("delivery journal online")
	}

	var app *miniapp.Context
	if appID := os.Getenv(appIDVar); appID != "" {
		app, err = miniapp.New(appID, os.Getenv(oaIDVar))
		if err != nil {
			return err
		}
		log.Infow("mini app configured", "app_id", app.AppID(), "oa_id", app.OAID())
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	addr := os.Getenv(listenVar)
	if addr == "" {
		addr = defaultListen
	}
	srv := server.New(server.Options{
		Addr:     addr,
		Verifier: verifier,
		Logger:   log.Named("webhook"),
		Journal:  rec,
		MiniApp:  app,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Infow("shutdown complete")
	return nil
}
