// utils/numbers.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber returns a human-readable order identifier,
// e.g. ORD-20250110-3F7A1. The suffix is uuid-derived rather than a small
// random integer; callers still retry on a unique-constraint violation.
func GenerateOrderNumber() string {
	return generateNumber("ORD")
}

// GenerateRequestNumber returns a service request identifier,
// e.g. SR-20250110-9C04B.
func GenerateRequestNumber() string {
	return generateNumber("SR")
}

func generateNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:5]
	return prefix + "-" + time.Now().Format("20060102") + "-" + suffix
}

// GeneratePickupToken returns a 256-bit bearer token rendered as 64 hex
// characters, used to gate the public rider cart flow.
func GeneratePickupToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to generate pickup token")
	}
	return hex.EncodeToString(buf)
}
