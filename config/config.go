package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagBindings maps viper keys to their CLI flag and environment fallback.
// There is no config file: the tool is configured from flags and environment
// only, so older cron/systemd deployments keep working unchanged.
var flagBindings = []struct {
	key  string
	flag string
	env  string
}{
	{"qbittorrent.host", "host", "QB_HOST"},
	{"qbittorrent.port", "port", "QB_PORT"},
	{"qbittorrent.username", "user", "QB_USER"},
	{"qbittorrent.password", "password", "QB_PASS"},
	{"dump.save_dir", "save-dir", "SAVE_DIR"},
	{"dump.category", "category", "QB_CATEGORY"},
	{"dump.retention_days", "retention", "RETENTION_DAYS"},
	{"logging.quiet", "quiet", ""},
}

// Load builds the configuration from the given flag set, falling back to
// environment variables and then to defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	for _, b := range flagBindings {
		if f := flags.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", b.flag, err)
			}
		}
		if b.env != "" {
			if err := v.BindEnv(b.key, b.env); err != nil {
				return nil, fmt.Errorf("failed to bind env %s: %w", b.env, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// qBittorrent defaults
	v.SetDefault("qbittorrent.host", "localhost")
	v.SetDefault("qbittorrent.port", 8080)
	v.SetDefault("qbittorrent.username", "admin")
	v.SetDefault("qbittorrent.password", "adminadmin")

	// Dump defaults
	v.SetDefault("dump.save_dir", "/mnt/wiki/enwiki")
	v.SetDefault("dump.category", "wikipedia")
	v.SetDefault("dump.retention_days", 30)

	// Logging defaults
	v.SetDefault("logging.quiet", false)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.QBittorrent.Host == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.QBittorrent.Port < 1 || cfg.QBittorrent.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.QBittorrent.Port)
	}

	if cfg.Dump.SaveDir == "" {
		return fmt.Errorf("save-dir is required")
	}

	if cfg.Dump.RetentionDays < 0 {
		return fmt.Errorf("retention must not be negative: %d", cfg.Dump.RetentionDays)
	}

	return nil
}
