package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

var (
	randomRead = rand.Read
	nowFunc    = time.Now
)

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateTimestampedID returns "<unix millis>-<random hex>", sortable by creation time.
func GenerateTimestampedID(randomBytes int) (string, error) {
	suffix, err := GenerateRandomToken(randomBytes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s", nowFunc().UnixMilli(), suffix), nil
}
