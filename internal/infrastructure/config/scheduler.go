package config

import "time"

// SchedulerConfig holds the fixed interval of every background job
type SchedulerConfig struct {
	// Weapon impact processor
	ImpactInterval time.Duration `mapstructure:"impact_interval" validate:"required"`

	// Covert mission completer
	MissionInterval time.Duration `mapstructure:"mission_interval" validate:"required"`

	// Defense repair completer and cooldown expiry
	DefenseInterval time.Duration `mapstructure:"defense_interval" validate:"required"`

	// Stored notification retention sweep
	RetentionInterval time.Duration `mapstructure:"retention_interval" validate:"required"`

	// Upper bound for a single job run; zero disables the limit
	JobTimeout time.Duration `mapstructure:"job_timeout"`

	// Maximum due records advanced per run
	BatchSize int `mapstructure:"batch_size" validate:"min=1"`
}
