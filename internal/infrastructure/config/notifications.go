package config

import "time"

// NotificationsConfig holds the notification dispatcher settings
type NotificationsConfig struct {
	// Queue length; events beyond it are dropped
	BufferSize int `mapstructure:"buffer_size" validate:"min=1"`

	// Upper bound for one sink delivery
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout" validate:"required"`

	// Token bucket for outbound deliveries
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gt=0"`
	Burst         int     `mapstructure:"burst" validate:"min=1"`

	// How long stored notifications are kept
	Retention time.Duration `mapstructure:"retention" validate:"required"`

	// Persist delivered notifications to the database
	StoreEnabled bool `mapstructure:"store_enabled"`
}
