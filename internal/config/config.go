package config

import "time"

// Config is the root configuration for the CasaVoz service.
type Config struct {
	Gateway   GatewayConfig   `json:"gateway"`
	AI        AIConfig        `json:"ai"`
	Database  DatabaseConfig  `json:"database,omitempty"`
	Notify    NotifyConfig    `json:"notify,omitempty"`
	Triage    TriageConfig    `json:"triage"`
	Reminder  ReminderConfig  `json:"reminder,omitempty"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`
}

// GatewayConfig configures the inbound webhook HTTP listener.
type GatewayConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	RateLimitRPM int    `json:"rate_limit_rpm"` // max webhook hits per sender per minute
}

// AIConfig configures the completion provider used by the classifier.
// APIKey comes from env CASAVOZ_OPENAI_API_KEY only (secret, never persisted).
type AIConfig struct {
	APIKey      string  `json:"-"`
	APIBase     string  `json:"api_base,omitempty"` // OpenAI-compatible; empty = api.openai.com
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	TimeoutSec  int     `json:"timeout_sec"` // per-call bound; expiry falls over to the rule fallback
}

// Timeout returns the bounded AI call timeout.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSec <= 0 {
		return 20 * time.Second
	}
	return time.Duration(a.TimeoutSec) * time.Second
}

// DatabaseConfig selects the tenant/message store backend.
// PostgresDSN is NEVER read from config.json (secret) — only from env
// CASAVOZ_POSTGRES_DSN. When empty, the service runs on a local SQLite file.
type DatabaseConfig struct {
	PostgresDSN string `json:"-"`
	SQLitePath  string `json:"sqlite_path,omitempty"`
}

// NotifyConfig configures the landlord notification transport.
type NotifyConfig struct {
	Provider string         `json:"provider,omitempty"` // "twilio" (default when configured) or "telegram"
	Twilio   TwilioConfig   `json:"twilio,omitempty"`
	Telegram TelegramConfig `json:"telegram,omitempty"`
}

// TwilioConfig holds WhatsApp sending credentials. AuthToken from env only.
type TwilioConfig struct {
	AccountSID string `json:"account_sid,omitempty"`
	AuthToken  string `json:"-"`
	FromNumber string `json:"from_number,omitempty"` // e.g. "whatsapp:+14155238886"
}

// TelegramConfig maps landlord phone numbers to Telegram chat IDs.
// Token from env CASAVOZ_TELEGRAM_TOKEN only.
type TelegramConfig struct {
	Token         string            `json:"-"`
	LandlordChats map[string]string `json:"landlord_chats,omitempty"` // landlord phone → chat ID
}

// TriageConfig holds the pipeline constants.
type TriageConfig struct {
	CountryCode   string `json:"country_code"`    // canonical prefix for candidate phone keys
	ReplyMaxChars int    `json:"reply_max_chars"` // structured reply length bound
}

// ReminderConfig configures the rent-due reminder scheduler.
type ReminderConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Cron    string `json:"cron,omitempty"` // gronx expression, default "0 9 * * *"
}

// TelemetryConfig configures the optional OTLP trace exporter.
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"` // host:port of the OTLP HTTP collector
	ServiceName string `json:"service_name,omitempty"`
	Insecure    bool   `json:"insecure,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			RateLimitRPM: 30,
		},
		AI: AIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			TimeoutSec:  20,
		},
		Database: DatabaseConfig{
			SQLitePath: "casavoz.db",
		},
		Triage: TriageConfig{
			CountryCode:   "+52",
			ReplyMaxChars: 400,
		},
		Reminder: ReminderConfig{
			Cron: "0 9 * * *",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "casavoz",
		},
	}
}

// NotifyProvider resolves which notification transport is active.
// Explicit selection wins; otherwise whichever transport has credentials.
func (c *Config) NotifyProvider() string {
	if c.Notify.Provider != "" {
		return c.Notify.Provider
	}
	if c.Notify.Twilio.AccountSID != "" && c.Notify.Twilio.AuthToken != "" {
		return "twilio"
	}
	if c.Notify.Telegram.Token != "" {
		return "telegram"
	}
	return ""
}
