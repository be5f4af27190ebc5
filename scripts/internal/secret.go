package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret prints a random 256-bit secret for TALLYBANK_AUTH_SECRET
func GenerateSecret() error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("unable to generate secret: %w", err)
	}
	fmt.Printf("TALLYBANK_AUTH_SECRET=%s\n", hex.EncodeToString(key))
	return nil
}
