package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// TierConfig is one custom urgency tier entry: orders aged at least
// MinDays (and not captured by a more severe tier) get Label.
type TierConfig struct {
	Label   string `mapstructure:"label" yaml:"label"`
	MinDays int    `mapstructure:"min_days" yaml:"min_days"`
}

// UrgencyConfig controls the urgency engine.
type UrgencyConfig struct {
	// Table selects a built-in tier table: "standard" (8 tiers) or
	// "extended" (11 tiers). Ignored when Tiers is set.
	Table string `mapstructure:"table" yaml:"table"`

	// Tiers is an optional custom tier table, most-severe-first.
	Tiers []TierConfig `mapstructure:"tiers" yaml:"tiers,omitempty"`

	// OverdueAfterDays is the age beyond which a non-terminal order's
	// effective status is forced to Overdue.
	OverdueAfterDays int `mapstructure:"overdue_after_days" yaml:"overdue_after_days"`

	// PendingEscalation bumps an unapproved order out of the
	// least-severe tier once it is older than PendingAfterDays.
	PendingEscalation bool `mapstructure:"pending_escalation" yaml:"pending_escalation"`
	PendingAfterDays  int  `mapstructure:"pending_after_days" yaml:"pending_after_days"`
}

// AlertConfig controls alert generation and history.
type AlertConfig struct {
	// CriticalTiers are the urgency labels that produce alerts in
	// addition to Overdue effective status. Empty means the default
	// critical set for the active table.
	CriticalTiers []string `mapstructure:"critical_tiers" yaml:"critical_tiers,omitempty"`

	// MaxHistory bounds the alert history; oldest entries are evicted.
	MaxHistory int `mapstructure:"max_history" yaml:"max_history"`

	// Desktop enables desktop popups for newly created alerts.
	Desktop bool `mapstructure:"desktop" yaml:"desktop"`
}

// ReminderConfig controls the daily reminder window.
type ReminderConfig struct {
	// DayOff is the weekday with no reminders (0=Sunday .. 6=Saturday).
	DayOff int `mapstructure:"day_off" yaml:"day_off"`

	// Hour and Minute form the time-of-day cutoff; reminders are due
	// at or after this time.
	Hour   int `mapstructure:"hour" yaml:"hour"`
	Minute int `mapstructure:"minute" yaml:"minute"`

	// Recipient is the reminder email address.
	Recipient string `mapstructure:"recipient" yaml:"recipient"`

	// PollIntervalSec is how often the due-check predicate re-runs.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// AIConfig holds settings for the AI assistant integration.
type AIConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// SMTPConfig holds the outgoing mail settings for reminder dispatch.
type SMTPConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	From string `mapstructure:"from" yaml:"from"`
	User string `mapstructure:"user" yaml:"user"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Urgency  UrgencyConfig  `mapstructure:"urgency" yaml:"urgency"`
	Alerts   AlertConfig    `mapstructure:"alerts" yaml:"alerts"`
	Reminder ReminderConfig `mapstructure:"reminder" yaml:"reminder"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	SMTP     SMTPConfig     `mapstructure:"smtp" yaml:"smtp"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/sentinel/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "sentinel", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Urgency: UrgencyConfig{
			Table:             "standard",
			OverdueAfterDays:  30,
			PendingEscalation: true,
			PendingAfterDays:  7,
		},
		Alerts: AlertConfig{
			MaxHistory: 50,
			Desktop:    true,
		},
		Reminder: ReminderConfig{
			DayOff:          0, // Sunday
			Hour:            9,
			Minute:          30,
			PollIntervalSec: 60,
		},
		AI: AIConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 2048,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("urgency.table", "standard")
	v.SetDefault("urgency.overdue_after_days", 30)
	v.SetDefault("urgency.pending_escalation", true)
	v.SetDefault("urgency.pending_after_days", 7)
	v.SetDefault("alerts.max_history", 50)
	v.SetDefault("alerts.desktop", true)
	v.SetDefault("reminder.day_off", 0)
	v.SetDefault("reminder.hour", 9)
	v.SetDefault("reminder.minute", 30)
	v.SetDefault("reminder.poll_interval_sec", 60)
	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("smtp.port", 587)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("urgency", cfg.Urgency)
	v.Set("alerts", cfg.Alerts)
	v.Set("reminder", cfg.Reminder)
	v.Set("ai", cfg.AI)
	v.Set("smtp", cfg.SMTP)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
