package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weaponDtos "github.com/fame0528/DarkFrame-sub009/internal/application/weapon/dtos"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

// writeTestConfig points the CLI at a fresh SQLite file
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.UserHomeEnv, dir)
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`database:
  type: sqlite
  path: %s
game:
  min_target_level: 1
  random_seed: 7
logging:
  level: ERROR
`, filepath.Join(dir, "wmd.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_ResearchAndWeaponFlow(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, cfg, "actor", "register", "--id", "alpha", "--level", "5", "--research-points", "500", "--resources", "3000")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Actor registered")

	out, err = runCLI(t, cfg, "--actor", "alpha", "tech", "start", "rocketry")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Research started on rocketry (100 points required)")

	out, err = runCLI(t, cfg, "--actor", "alpha", "tech", "spend", "150")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Spent 100 points, rocketry completed")

	out, err = runCLI(t, cfg, "--actor", "alpha", "--json", "weapon", "create", "--payload", "tactical_missile")
	require.NoError(t, err, out)

	var w weaponDtos.WeaponDTO
	require.NoError(t, json.Unmarshal([]byte(out), &w), out)
	assert.Equal(t, "TACTICAL_MISSILE", w.PayloadType)
	assert.Equal(t, "ASSEMBLING", w.Status)
	assert.Equal(t, 500, w.ReservedResources)
	assert.Len(t, w.Components, 2)

	out, err = runCLI(t, cfg, "--actor", "alpha", "weapon", "install", w.ID, "--component", "warhead")
	require.NoError(t, err, out)
	assert.NotContains(t, out, "READY")

	out, err = runCLI(t, cfg, "--actor", "alpha", "weapon", "install", w.ID, "--component", "guidance")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Weapon is READY for launch")
}

func TestCLI_DomainErrorsCarryReason(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := runCLI(t, cfg, "actor", "register", "--id", "alpha", "--research-points", "50")
	require.NoError(t, err)

	_, err = runCLI(t, cfg, "--actor", "alpha", "tech", "start", "guidance_systems")
	require.Error(t, err)
	assert.Contains(t, formatError(err), "PREREQUISITE_UNMET")

	_, err = runCLI(t, cfg, "actor", "show", "ghost")
	require.Error(t, err)
	assert.Contains(t, formatError(err), "ACTOR_NOT_FOUND")
}

func TestCLI_CatalogValidateEmbedded(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, cfg, "--json", "catalog", "validate")
	require.NoError(t, err, out)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "(embedded default)", summary["path"])
	assert.EqualValues(t, 10, summary["techs"])
	assert.EqualValues(t, 3, summary["payloads"])
	assert.EqualValues(t, 3, summary["missions"])
}

func TestCLI_SchedulerRunInProcess(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, cfg, "scheduler", "run", "weapon_impacts")
	require.NoError(t, err, out)
	assert.Contains(t, out, "weapon_impacts completed")

	_, err = runCLI(t, cfg, "scheduler", "run", "nope")
	require.Error(t, err)
	assert.Contains(t, formatError(err), "JOB_NOT_FOUND")
}

func TestFormatError_PlainError(t *testing.T) {
	assert.Equal(t, "Error: boom", formatError(fmt.Errorf("boom")))
}
