package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Game          GameConfig          `mapstructure:"game"`
	Daemon        DaemonConfig        `mapstructure:"daemon"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/wmd")
	}

	v.SetEnvPrefix("WMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	setViperDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	// DATABASE_URL is honoured without the WMD_ prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
		if v.GetString("database.type") == "" {
			v.Set("database.type", "postgres")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv values reach Unmarshal
// even when no config file mentions them.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"database.type", "database.url", "database.path", "database.host", "database.port",
		"database.user", "database.password", "database.name", "database.sslmode", "database.query_timeout",
		"scheduler.impact_interval", "scheduler.mission_interval", "scheduler.defense_interval",
		"scheduler.retention_interval", "scheduler.job_timeout", "scheduler.batch_size",
		"notifications.buffer_size", "notifications.delivery_timeout", "notifications.rate_per_second",
		"notifications.burst", "notifications.retention", "notifications.store_enabled",
		"game.catalog_path", "game.operative_cap", "game.min_target_level", "game.random_seed",
		"daemon.pid_file", "daemon.http_addr", "daemon.grpc_addr", "daemon.shutdown_timeout",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"metrics.enabled", "metrics.path",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Default returns a fully defaulted configuration without reading any source
func Default() *Config {
	cfg := &Config{}
	cfg.Metrics.Enabled = true
	cfg.Notifications.StoreEnabled = true
	SetDefaults(cfg)
	return cfg
}
