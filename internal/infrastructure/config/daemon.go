package config

import "time"

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// HTTP listener for health, metrics and the notification websocket
	HTTPAddr string `mapstructure:"http_addr" validate:"required"`

	// gRPC listener for the standard health service
	GRPCAddr string `mapstructure:"grpc_addr" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
