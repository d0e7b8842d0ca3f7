package idhash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NewPurchaseID computes a collision-resistant purchase id.
// Formula: SHA256(user|unix_nano|nonce) where nonce is 8 random bytes.
// Returns hex-encoded hash (64 characters).
func NewPurchaseID(userID string, at time.Time) (string, error) {
	var nonce [8]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("read id nonce: %w", err)
	}

	data := fmt.Sprintf("%s|%d|%s",
		userID,
		at.UnixNano(),
		hex.EncodeToString(nonce[:]),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:]), nil
}
