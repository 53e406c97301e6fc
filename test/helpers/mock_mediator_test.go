package helpers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepRequest struct{}

func TestMockMediator_FailOnAndRecover(t *testing.T) {
	m := NewMockMediator()
	ctx := context.Background()

	m.FailOn("sweepRequest", errors.New("store offline"))
	_, err := m.Send(ctx, &sweepRequest{})
	require.EqualError(t, err, "store offline")

	m.FailOn("sweepRequest", nil)
	_, err = m.Send(ctx, &sweepRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, m.CallCount("sweepRequest"))
	assert.Equal(t, []string{"sweepRequest", "sweepRequest"}, m.GetCallLog())

	m.ClearCallLog()
	assert.Empty(t, m.GetCallLog())
}
