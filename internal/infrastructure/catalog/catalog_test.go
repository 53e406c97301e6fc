package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/espionage"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/weapon"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	order := c.Research.Order()
	assert.Less(t, indexOf(order, "rocketry"), indexOf(order, "ballistic_missiles"))
	assert.Less(t, indexOf(order, "warhead_design"), indexOf(order, "ballistic_missiles"))

	missile, ok := c.Payloads.Get("TACTICAL_MISSILE")
	require.True(t, ok)
	assert.Equal(t, []string{"warhead", "guidance"}, missile.Components)
	assert.Equal(t, 10*time.Minute, missile.FlightDuration)

	recon, ok := c.Espionage.Mission("RECON")
	require.True(t, ok)
	assert.Equal(t, espionage.Specialization("INFILTRATOR"), recon.Preferred)
	assert.Equal(t, 30*time.Minute, recon.Duration)
}

func TestParse_RejectsCycle(t *testing.T) {
	doc := `
schema_version: "1"
techs:
  - {id: A, name: A, category: OFFENSE, cost: 1, prerequisites: [B]}
  - {id: B, name: B, category: OFFENSE, cost: 1, prerequisites: [A]}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestParse_RejectsUnknownRequiredTech(t *testing.T) {
	doc := `
schema_version: "1"
techs:
  - {id: A, name: A, category: OFFENSE, cost: 1}
payloads:
  - {type: DART, name: Dart, components: [tip], flight_duration: 1m, max_range: 5, damage: 1, cost: 1, required_tech: Z}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tech "Z"`)
}

func TestParse_RejectsSchemaVersion(t *testing.T) {
	_, err := Parse([]byte(`schema_version: "9"`))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	doc := `
schema_version: "1"
techs:
  - {id: A, name: A, category: OFFENSE, cost: 5}
payloads:
  - {type: DART, name: Dart, components: [tip], flight_duration: 90s, max_range: 5, damage: 1, cost: 1}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	dart, ok := c.Payloads.Get(weapon.PayloadType("DART"))
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, dart.FlightDuration)
	assert.Empty(t, c.Espionage.Missions())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
