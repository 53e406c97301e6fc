package config

// LoggingConfig selects where daemon and CLI log lines go and how much detail
// they carry. Components overrides Level for loggers created with
// Logger.Component, e.g. {"scheduler": "debug"}.
type LoggingConfig struct {
	Level      string            `mapstructure:"level" validate:"required,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format     string            `mapstructure:"format" validate:"required,oneof=json text"`
	Output     string            `mapstructure:"output" validate:"required,oneof=stdout stderr file"`
	FilePath   string            `mapstructure:"file_path" validate:"required_if=Output file"`
	Components map[string]string `mapstructure:"components" validate:"dive,keys,required,endkeys,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// MetricsConfig toggles the Prometheus registry. Path is served on the
// daemon's HTTP listener next to the API.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
