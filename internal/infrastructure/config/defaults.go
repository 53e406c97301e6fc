package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "wmd.db"
	}
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Host == "" {
			cfg.Database.Host = "localhost"
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
		if cfg.Database.User == "" {
			cfg.Database.User = "wmd"
		}
		if cfg.Database.Name == "" {
			cfg.Database.Name = "wmd"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 5 * time.Second
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Scheduler defaults
	if cfg.Scheduler.ImpactInterval == 0 {
		cfg.Scheduler.ImpactInterval = 30 * time.Second
	}
	if cfg.Scheduler.MissionInterval == 0 {
		cfg.Scheduler.MissionInterval = 60 * time.Second
	}
	if cfg.Scheduler.DefenseInterval == 0 {
		cfg.Scheduler.DefenseInterval = 60 * time.Second
	}
	if cfg.Scheduler.RetentionInterval == 0 {
		cfg.Scheduler.RetentionInterval = time.Hour
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 25 * time.Second
	}
	if cfg.Scheduler.BatchSize == 0 {
		cfg.Scheduler.BatchSize = 200
	}

	// Notification defaults
	if cfg.Notifications.BufferSize == 0 {
		cfg.Notifications.BufferSize = 256
	}
	if cfg.Notifications.DeliveryTimeout == 0 {
		cfg.Notifications.DeliveryTimeout = 3 * time.Second
	}
	if cfg.Notifications.RatePerSecond == 0 {
		cfg.Notifications.RatePerSecond = 50
	}
	if cfg.Notifications.Burst == 0 {
		cfg.Notifications.Burst = 100
	}
	if cfg.Notifications.Retention == 0 {
		cfg.Notifications.Retention = 7 * 24 * time.Hour
	}

	// Game defaults
	if cfg.Game.OperativeCap == 0 {
		cfg.Game.OperativeCap = 5
	}
	if cfg.Game.MinTargetLevel == 0 {
		cfg.Game.MinTargetLevel = 3
	}
	if cfg.Game.RepairSecondsPerPoint == 0 {
		cfg.Game.RepairSecondsPerPoint = 6
	}
	if cfg.Game.RepairCostPerPoint == 0 {
		cfg.Game.RepairCostPerPoint = 10
	}
	if cfg.Game.InterceptShare == 0 {
		cfg.Game.InterceptShare = 0.4
	}
	if cfg.Game.Cooldown == 0 {
		cfg.Game.Cooldown = 2 * time.Minute
	}
	if cfg.Game.SabotageFactor == 0 {
		cfg.Game.SabotageFactor = 1.5
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/wmd-daemon.pid"
	}
	if cfg.Daemon.HTTPAddr == "" {
		cfg.Daemon.HTTPAddr = ":8080"
	}
	if cfg.Daemon.GRPCAddr == "" {
		cfg.Daemon.GRPCAddr = ":9090"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// setViperDefaults covers booleans whose zero value is a valid explicit setting
func setViperDefaults(v viperDefaulter) {
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("notifications.store_enabled", true)
}

type viperDefaulter interface {
	SetDefault(key string, value interface{})
}
