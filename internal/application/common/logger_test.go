package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedLine struct {
	level, message string
	metadata       map[string]interface{}
}

type captureLogger struct{ lines []capturedLine }

func (c *captureLogger) Log(level, message string, metadata map[string]interface{}) {
	c.lines = append(c.lines, capturedLine{level, message, metadata})
}

func TestLoggerFromContext_WithoutLoggerDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		LoggerFromContext(context.Background()).Log(LevelInfo, "dropped", nil)
	})
}

func TestWithLogFields_MergesIntoEveryLine(t *testing.T) {
	capture := &captureLogger{}
	ctx := WithLogger(context.Background(), capture)
	ctx = WithLogFields(ctx, map[string]interface{}{"job": "weapon_impacts", "batch": 1})
	ctx = WithLogFields(ctx, map[string]interface{}{"batch": 2})

	LoggerFromContext(ctx).Log(LevelInfo, "Weapon landed", map[string]interface{}{"weapon_id": "w-1"})

	require.Len(t, capture.lines, 1)
	assert.Equal(t, map[string]interface{}{
		"job":       "weapon_impacts",
		"batch":     2,
		"weapon_id": "w-1",
	}, capture.lines[0].metadata)
}
