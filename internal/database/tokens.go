package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	sessionTokenBytes = 32
	resetTokenBytes   = 32
	resetTokenTTL     = 24 * time.Hour
)

// generateSecureToken creates a cryptographically secure random hex token.
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// normalizeEmail is the key used to detect duplicate accounts.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
