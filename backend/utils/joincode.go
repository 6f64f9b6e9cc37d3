package utils

import (
	"strings"

	"github.com/google/uuid"
)

const JoinCodeLength = 8

// GenerateJoinCode returns the first eight hex digits of a random UUID, upper-cased.
func GenerateJoinCode() string {
	return strings.ToUpper(uuid.NewString()[:JoinCodeLength])
}

// NormalizeJoinCode makes user-typed codes comparable with stored ones.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
