package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn", "text")

	l.Info("hidden", nil)
	l.Warn("job skipped", map[string]interface{}{"job": "weapon_impacts", "reason": "still running"})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] job skipped job=weapon_impacts reason=\"still running\"")
}

func TestLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug", "json").With(map[string]interface{}{"component": "scheduler"})

	l.Log("error", "run failed", map[string]interface{}{"error": errors.New("boom")})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "run failed", record["msg"])
	assert.Equal(t, "scheduler", record["component"])
	assert.Equal(t, "boom", record["error"])
}

func TestLogger_ComponentOverride(t *testing.T) {
	var buf bytes.Buffer
	root := NewWithWriter(&buf, "error", "text")
	root.SetComponentLevel("scheduler", "debug")

	root.Component("notifications").Info("dropped", nil)
	root.Component("scheduler").Debug("tick", map[string]interface{}{"job": "mission_resolution"})

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "[DEBUG] tick component=scheduler job=mission_resolution")
}
