package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for records created by the core
const (
	PrefixWeapon      = "wpn"
	PrefixOperative   = "op"
	PrefixMission     = "msn"
	PrefixDefenseUnit = "def"
)

// GenerateID creates a compact, human-readable record ID.
// Format: {prefix}-{12charHexUUID}
//
// Example:
//   - Input: prefix="wpn"
//   - Output: "wpn-a3f8e2b1c4d5"
func GenerateID(prefix string) string {
	short := generateShortUUID(12)
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}

// ShortID trims a generated ID for table output, keeping the prefix.
// "wpn-a3f8e2b1c4d5" -> "wpn-a3f8e2"
func ShortID(id string) string {
	prefix, rest, found := strings.Cut(id, "-")
	if !found {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	}
	if len(rest) > 6 {
		rest = rest[:6]
	}
	return prefix + "-" + rest
}

// generateShortUUID takes the first n hex characters of a random UUID
func generateShortUUID(n int) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return hex[:n]
}
