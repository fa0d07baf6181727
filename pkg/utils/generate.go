package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateBookingCode builds a human-readable booking reference.
// Format: BK-YYYYMMDD-HHMMSS-RANDOM
func GenerateBookingCode() string {
	now := time.Now()

	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("BK-%s-%s-%s", datePart, timePart, randomPart)
}

// GenerateTicketCode builds a unique per-seat ticket code. The uuid suffix
// keeps codes unique even when many tickets are issued in the same second.
func GenerateTicketCode() string {
	now := time.Now()
	suffix := uuid.New().String()[:8]

	return fmt.Sprintf("TK-%s-%s", now.Format("20060102"), suffix)
}

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
