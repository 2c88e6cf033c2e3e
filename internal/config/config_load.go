package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/titanous/json5"
)

// Load reads config from a JSON file, then overlays env vars.
// A missing file is not an error: defaults plus env vars apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	// Secrets (env only, never in config.json)
	envStr("CASAVOZ_OPENAI_API_KEY", &c.AI.APIKey)
	envStr("CASAVOZ_POSTGRES_DSN", &c.Database.PostgresDSN)
	envStr("CASAVOZ_TWILIO_AUTH_TOKEN", &c.Notify.Twilio.AuthToken)
	envStr("CASAVOZ_TELEGRAM_TOKEN", &c.Notify.Telegram.Token)

	// Overridable settings
	envStr("CASAVOZ_AI_BASE", &c.AI.APIBase)
	envStr("CASAVOZ_MODEL", &c.AI.Model)
	envStr("CASAVOZ_TWILIO_ACCOUNT_SID", &c.Notify.Twilio.AccountSID)
	envStr("CASAVOZ_TWILIO_FROM", &c.Notify.Twilio.FromNumber)
	envStr("CASAVOZ_SQLITE_PATH", &c.Database.SQLitePath)
	envStr("CASAVOZ_COUNTRY_CODE", &c.Triage.CountryCode)
	envStr("CASAVOZ_NOTIFY_PROVIDER", &c.Notify.Provider)

	envStr("CASAVOZ_HOST", &c.Gateway.Host)
	if v := os.Getenv("CASAVOZ_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Gateway.Port = port
		}
	}

	// Reminder scheduler
	envStr("CASAVOZ_REMINDER_CRON", &c.Reminder.Cron)
	if v := os.Getenv("CASAVOZ_REMINDER_ENABLED"); v != "" {
		c.Reminder.Enabled = v == "true" || v == "1"
	}

	// Telemetry
	envStr("CASAVOZ_TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	envStr("CASAVOZ_TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	if v := os.Getenv("CASAVOZ_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("CASAVOZ_TELEMETRY_INSECURE"); v != "" {
		c.Telemetry.Insecure = v == "true" || v == "1"
	}
}
