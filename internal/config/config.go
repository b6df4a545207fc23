// Package config loads Scribe process configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog and sink backend names.
const (
	BackendAirtable = "airtable"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
)

// TelegramConfig holds transport settings.
type TelegramConfig struct {
	// Token is the bot token issued by BotFather.
	Token string `mapstructure:"token"`

	// PollTimeout is the long-poll duration for getUpdates.
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// AirtableConfig holds the Airtable base coordinates.
type AirtableConfig struct {
	APIKey           string `mapstructure:"api_key"`
	BaseID           string `mapstructure:"base_id"`
	SamplesTable     string `mapstructure:"samples_table"`
	SubmissionsTable string `mapstructure:"submissions_table"`
}

// CatalogConfig selects the template catalog backend.
type CatalogConfig struct {
	// Source is "airtable" or "file".
	Source string `mapstructure:"source"`

	// Dir is the template directory for the file backend.
	Dir string `mapstructure:"dir"`
}

// Config is the root configuration.
type Config struct {
	LogLevel   string `mapstructure:"log_level"`
	LogConsole bool   `mapstructure:"log_console"`

	// DatabasePath is the SQLite file for submissions and events.
	DatabasePath string `mapstructure:"database_path"`

	// SinkBackend is "airtable" or "sqlite".
	SinkBackend string `mapstructure:"sink_backend"`

	// CallTimeout bounds each collaborator call.
	CallTimeout time.Duration `mapstructure:"call_timeout"`

	// SessionTTL reaps dialogue sessions idle longer than this.
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	Telegram TelegramConfig `mapstructure:"telegram"`
	Airtable AirtableConfig `mapstructure:"airtable"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// Load reads configuration from an optional YAML file plus SCRIBE_*
// environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("scribe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_console", false)
	v.SetDefault("database_path", "scribe.db")
	v.SetDefault("sink_backend", BackendSQLite)
	v.SetDefault("call_timeout", 15*time.Second)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("telegram.poll_timeout", 50*time.Second)
	v.SetDefault("catalog.source", BackendFile)
	v.SetDefault("catalog.dir", "templates")
	v.SetDefault("airtable.samples_table", "Samples")
	v.SetDefault("airtable.submissions_table", "Submissions")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration can run the bot daemon.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required (SCRIBE_TELEGRAM_TOKEN)")
	}

	switch c.Catalog.Source {
	case BackendFile:
		if strings.TrimSpace(c.Catalog.Dir) == "" {
			return fmt.Errorf("catalog dir is required for the file catalog")
		}
	case BackendAirtable:
		if err := c.requireAirtable(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	switch c.SinkBackend {
	case BackendSQLite:
	case BackendAirtable:
		if err := c.requireAirtable(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown sink backend %q", c.SinkBackend)
	}

	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

func (c *Config) requireAirtable() error {
	if strings.TrimSpace(c.Airtable.APIKey) == "" {
		return fmt.Errorf("airtable api key is required (SCRIBE_AIRTABLE_API_KEY)")
	}
	if strings.TrimSpace(c.Airtable.BaseID) == "" {
		return fmt.Errorf("airtable base id is required (SCRIBE_AIRTABLE_BASE_ID)")
	}
	return nil
}
