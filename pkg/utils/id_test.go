package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID(PrefixWeapon)

	assert.True(t, strings.HasPrefix(id, "wpn-"))
	assert.Len(t, id, len("wpn-")+12)
	assert.NotEqual(t, id, GenerateID(PrefixWeapon))
	assert.Len(t, GenerateID(""), 12)
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wpn-a3f8e2b1c4d5", "wpn-a3f8e2"},
		{"op-12", "op-12"},
		{"abcdef0123456789", "abcdef01"},
		{"short", "short"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortID(tt.in), tt.in)
	}
}
