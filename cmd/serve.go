package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/casavoz/casavoz/internal/config"
	"github.com/casavoz/casavoz/internal/httpapi"
	"github.com/casavoz/casavoz/internal/notify"
	"github.com/casavoz/casavoz/internal/phone"
	"github.com/casavoz/casavoz/internal/providers"
	"github.com/casavoz/casavoz/internal/reminder"
	"github.com/casavoz/casavoz/internal/store"
	"github.com/casavoz/casavoz/internal/store/pg"
	"github.com/casavoz/casavoz/internal/store/sqlite"
	"github.com/casavoz/casavoz/internal/tracing"
	"github.com/casavoz/casavoz/internal/triage"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook gateway",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runServe() {
	setupLogging()

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	shutdownTracing, err := tracing.Init(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("init tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("shutdown tracing", "error", err)
		}
	}()

	provider := buildProvider(cfg)
	notifier := buildNotifier(cfg)

	orchestrator := triage.NewOrchestrator(
		phone.NewNormalizer(cfg.Triage.CountryCode),
		triage.NewResolver(stores.Tenants),
		triage.NewGenerator(provider, cfg.AI.Model, cfg.AI.Temperature, cfg.AI.Timeout(), cfg.Triage.ReplyMaxChars),
		triage.NewInteractionLogger(stores.Messages),
		triage.NewDispatcher(notifier),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	server := httpapi.NewServer(addr, orchestrator, stores, provider, cfg.Gateway.RateLimitRPM)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("gateway listening", "addr", addr)
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.Reminder.Enabled {
		sched := reminder.NewScheduler(cfg.Reminder.Cron, stores.Tenants, notifier)
		g.Go(func() error {
			err := sched.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("goodbye")
}

func openStores(cfg *config.Config) (*store.Stores, error) {
	if cfg.Database.PostgresDSN != "" {
		slog.Info("using postgres store")
		return pg.NewStores(cfg.Database.PostgresDSN)
	}
	slog.Info("using sqlite store", "path", cfg.Database.SQLitePath)
	return sqlite.NewStores(cfg.Database.SQLitePath)
}

// buildProvider returns nil when no API key is configured; the triage
// generator then answers from the rule fallback alone.
func buildProvider(cfg *config.Config) providers.Provider {
	if cfg.AI.APIKey == "" {
		slog.Warn("no AI API key configured, classification runs on rule fallback only")
		return nil
	}
	return providers.NewOpenAIProvider("openai", cfg.AI.APIKey, cfg.AI.APIBase, cfg.AI.Model)
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	switch cfg.NotifyProvider() {
	case "twilio":
		slog.Info("landlord notifications via twilio", "from", cfg.Notify.Twilio.FromNumber)
		return notify.NewTwilioNotifier(cfg.Notify.Twilio.AccountSID, cfg.Notify.Twilio.AuthToken, cfg.Notify.Twilio.FromNumber)
	case "telegram":
		n, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.LandlordChats)
		if err != nil {
			slog.Error("init telegram notifier", "error", err)
			return nil
		}
		slog.Info("landlord notifications via telegram", "chats", len(cfg.Notify.Telegram.LandlordChats))
		return n
	default:
		slog.Warn("no notifier configured, escalations will be logged but not delivered")
		return nil
	}
}
