package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(uuidStr))
}

// ==================== QUERY PARAMS ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseFloatPtr returns nil for empty or malformed input
func ParseFloatPtr(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ==================== DATES ====================

const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date or an RFC3339 timestamp and returns
// midnight UTC of the calendar day written in the input's own offset.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	t, err := time.Parse(DateLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, err
		}
	}

	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ==================== AVATAR ====================

const avatarBaseURL = "https://api.dicebear.com/7.x/identicon/svg?seed="

func GenerateAvatarURL() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return avatarBaseURL + uuid.NewString()
	}
	return avatarBaseURL + hex.EncodeToString(b)
}
