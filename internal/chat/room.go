package chat

import (
	"fmt"
	"strconv"
	"strings"

	"chatspace/internal/apperr"
)

const roomPrefix = "conversation"

// RoomLabel names the shared broadcast channel for an unordered pair of
// users. The two ids are sorted ascending so both participants compute the
// same label regardless of argument order.
func RoomLabel(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s_%d_%d", roomPrefix, a, b)
}

// ParseRoomLabel recovers the participant pair from a label, low id first.
func ParseRoomLabel(label string) (uint, uint, error) {
	parts := strings.Split(label, "_")
	if len(parts) != 3 || parts[0] != roomPrefix {
		return 0, 0, apperr.Validationf("malformed room label %q", label)
	}
	lo, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, apperr.Validationf("malformed room label %q", label)
	}
	hi, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, 0, apperr.Validationf("malformed room label %q", label)
	}
	if lo >= hi {
		return 0, 0, apperr.Validationf("malformed room label %q", label)
	}
	return uint(lo), uint(hi), nil
}

// IsParticipant reports whether userID is one of the two users the label
// encodes.
func IsParticipant(label string, userID uint) bool {
	lo, hi, err := ParseRoomLabel(label)
	if err != nil {
		return false
	}
	return userID == lo || userID == hi
}
