package config

import "time"

// GameConfig holds balance tunables that are not part of the catalogs
type GameConfig struct {
	// YAML catalog file; empty uses the embedded default catalog
	CatalogPath string `mapstructure:"catalog_path" validate:"catalogfile"`

	// Maximum operatives an actor may recruit
	OperativeCap int `mapstructure:"operative_cap" validate:"min=1"`

	// Lowest level an actor may be targeted at
	MinTargetLevel int `mapstructure:"min_target_level" validate:"min=0"`

	// Repair timing and price per missing health point
	RepairSecondsPerPoint int `mapstructure:"repair_seconds_per_point" validate:"min=1"`
	RepairCostPerPoint    int `mapstructure:"repair_cost_per_point" validate:"min=0"`

	// Share of incoming damage an ACTIVE defense unit absorbs, and its cooldown afterwards
	InterceptShare float64       `mapstructure:"intercept_share" validate:"min=0,max=1"`
	Cooldown       time.Duration `mapstructure:"cooldown" validate:"required"`

	// Sabotage damage per skill point
	SabotageFactor float64 `mapstructure:"sabotage_factor" validate:"gt=0"`

	// Seed for outcome rolls; zero seeds from the clock
	RandomSeed int64 `mapstructure:"random_seed"`
}
