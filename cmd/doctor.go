package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/casavoz/casavoz/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system environment and configuration health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("casavoz doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	// Config
	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND, using defaults)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	// Database
	fmt.Println()
	fmt.Println("  Database:")
	if cfg.Database.PostgresDSN != "" {
		fmt.Printf("    %-12s postgres\n", "Backend:")
		checkPostgres(cfg.Database.PostgresDSN)
	} else {
		fmt.Printf("    %-12s sqlite\n", "Backend:")
		fmt.Printf("    %-12s %s\n", "Path:", cfg.Database.SQLitePath)
	}

	// AI provider
	fmt.Println()
	fmt.Println("  AI:")
	checkSecret("API key", cfg.AI.APIKey)
	fmt.Printf("    %-12s %s\n", "Model:", cfg.AI.Model)
	if cfg.AI.APIBase != "" {
		fmt.Printf("    %-12s %s\n", "Base:", cfg.AI.APIBase)
	}

	// Notifications
	fmt.Println()
	fmt.Println("  Notify:")
	switch cfg.NotifyProvider() {
	case "twilio":
		fmt.Printf("    %-12s twilio (from %s)\n", "Provider:", cfg.Notify.Twilio.FromNumber)
		checkSecret("Auth token", cfg.Notify.Twilio.AuthToken)
	case "telegram":
		fmt.Printf("    %-12s telegram (%d landlord chats)\n", "Provider:", len(cfg.Notify.Telegram.LandlordChats))
		checkSecret("Bot token", cfg.Notify.Telegram.Token)
	default:
		fmt.Printf("    %-12s (not configured — escalations log only)\n", "Provider:")
	}

	// Triage constants
	fmt.Println()
	fmt.Println("  Triage:")
	fmt.Printf("    %-12s %s\n", "Country:", cfg.Triage.CountryCode)
	fmt.Printf("    %-12s %d chars\n", "Reply cap:", cfg.Triage.ReplyMaxChars)
	if cfg.Reminder.Enabled {
		fmt.Printf("    %-12s %q\n", "Reminders:", cfg.Reminder.Cron)
	} else {
		fmt.Printf("    %-12s disabled\n", "Reminders:")
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

func checkPostgres(dsn string) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		fmt.Printf("    %-12s CONNECT FAILED (%s)\n", "Status:", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		fmt.Printf("    %-12s CONNECT FAILED (%s)\n", "Status:", err)
		return
	}
	fmt.Printf("    %-12s OK\n", "Status:")
}

func checkSecret(name, value string) {
	if value == "" {
		fmt.Printf("    %-12s (not configured)\n", name+":")
		return
	}
	masked := value
	if len(value) > 8 {
		masked = value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
	}
	fmt.Printf("    %-12s %s\n", name+":", masked)
}
