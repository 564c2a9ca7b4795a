package config

// Config represents the complete configuration structure
type Config struct {
	QBittorrent QBittorrentConfig `mapstructure:"qbittorrent"`
	Dump        DumpConfig        `mapstructure:"dump"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// QBittorrentConfig holds qBittorrent WebUI connection details
type QBittorrentConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// DumpConfig controls where dumps land and how long they are kept
type DumpConfig struct {
	SaveDir       string `mapstructure:"save_dir"`
	Category      string `mapstructure:"category"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Quiet bool `mapstructure:"quiet"`
}
