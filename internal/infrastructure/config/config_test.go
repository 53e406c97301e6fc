package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, config.ValidateConfig(cfg))
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.ImpactInterval)
	assert.Equal(t, 60*time.Second, cfg.Scheduler.MissionInterval)
	assert.Equal(t, 5, cfg.Game.OperativeCap)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Notifications.StoreEnabled)
}

func TestLoadConfig_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: sqlite
  path: ":memory:"
scheduler:
  impact_interval: 5s
game:
  operative_cap: 2
`), 0o644))

	t.Setenv("WMD_SCHEDULER_MISSION_INTERVAL", "15s")
	t.Setenv("WMD_LOGGING_LEVEL", "debug")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.ImpactInterval)
	assert.Equal(t, 15*time.Second, cfg.Scheduler.MissionInterval)
	assert.Equal(t, 2, cfg.Game.OperativeCap)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: chatty
`), 0o644))

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestValidateConfig_FileOutputNeedsPath(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Output = "file"

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FilePath")
}

func TestValidateConfig_ComponentLevels(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Components = map[string]string{"scheduler": "debug"}
	require.NoError(t, config.ValidateConfig(cfg))

	cfg.Logging.Components["http"] = "loud"
	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Components")
}

func TestValidateConfig_CatalogPath(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte("techs: []\n"), 0o644))

	cfg := config.Default()
	cfg.Game.CatalogPath = catalog
	assert.NoError(t, config.ValidateConfig(cfg))

	cfg.Game.CatalogPath = filepath.Join(dir, "missing.yaml")
	err := config.ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a readable .yaml catalog")

	cfg.Game.CatalogPath = filepath.Join(dir, "catalog.json")
	assert.Error(t, config.ValidateConfig(cfg))
}

func TestValidateConfig_DatabaseRequirements(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = ""
	err := config.ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required for sqlite")

	cfg = config.Default()
	cfg.Database.Type = "postgres"
	err = config.ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required for postgres")

	cfg.Database.URL = "postgresql://wmd@localhost:5432/wmd"
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestValidateConfig_RetentionOutlivesSweep(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Retention = 30 * time.Minute

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention must be longer")
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	t.Setenv(config.UserHomeEnv, t.TempDir())

	h, err := config.NewUserConfigHandler()
	require.NoError(t, err)

	cfg, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultActor)

	require.NoError(t, h.SetDefaultActor("alpha"))
	require.NoError(t, h.SetNoColor(true))

	cfg, err = h.Load()
	require.NoError(t, err)
	assert.Equal(t, "alpha", cfg.DefaultActor)
	assert.True(t, cfg.NoColor)

	require.NoError(t, h.ClearDefaultActor())
	cfg, err = h.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultActor)
	assert.True(t, cfg.NoColor)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "wmd", Password: "secret", Name: "wmd", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=wmd password=secret dbname=wmd sslmode=disable", pg.DSN())

	pg.URL = "postgresql://wmd@db/wmd"
	assert.Equal(t, "postgresql://wmd@db/wmd", pg.DSN())

	assert.Equal(t, ":memory:", config.DatabaseConfig{Type: "sqlite"}.DSN())
	assert.Equal(t, "wmd.db", config.DatabaseConfig{Type: "sqlite", Path: "wmd.db"}.DSN())
}
