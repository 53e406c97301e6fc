package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserHomeEnv overrides the directory that holds per-user CLI preferences
const UserHomeEnv = "WMD_HOME"

// UserConfig holds per-user CLI preferences. It is separate from the game
// configuration so one database can be shared by several operators.
type UserConfig struct {
	// Actor used when --actor is not given
	DefaultActor string `yaml:"default_actor,omitempty"`

	// Disable ANSI colors in tree and table output
	NoColor bool `yaml:"no_color,omitempty"`
}

// UserConfigHandler loads and saves the preferences file
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler resolves $WMD_HOME/user.yaml, falling back to ~/.wmd/user.yaml
func NewUserConfigHandler() (*UserConfigHandler, error) {
	dir := os.Getenv(UserHomeEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".wmd")
	}
	return &UserConfigHandler{configPath: filepath.Join(dir, "user.yaml")}, nil
}

// Load reads the preferences. A missing file yields empty preferences.
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", h.configPath, err)
	}
	return &cfg, nil
}

// Save replaces the preferences file atomically
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := h.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := os.Rename(tmp, h.configPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace user config: %w", err)
	}
	return nil
}

// Update loads, mutates and saves the preferences in one step
func (h *UserConfigHandler) Update(mutate func(*UserConfig)) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	mutate(cfg)
	return h.Save(cfg)
}

// SetDefaultActor stores the actor used when --actor is omitted
func (h *UserConfigHandler) SetDefaultActor(actorID string) error {
	return h.Update(func(c *UserConfig) { c.DefaultActor = actorID })
}

// ClearDefaultActor removes the default actor setting
func (h *UserConfigHandler) ClearDefaultActor() error {
	return h.Update(func(c *UserConfig) { c.DefaultActor = "" })
}

// SetNoColor stores the color preference
func (h *UserConfigHandler) SetNoColor(noColor bool) error {
	return h.Update(func(c *UserConfig) { c.NoColor = noColor })
}

// GetConfigPath returns the path to the preferences file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
