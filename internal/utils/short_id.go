package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const shortIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateShortID generates a random code of length characters drawn from an
// alphabet without look-alike characters (no I, O, 0 or 1).
func GenerateShortID(length int) (string, error) {
	max := big.NewInt(int64(len(shortIDAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		code[i] = shortIDAlphabet[n.Int64()]
	}
	return string(code), nil
}

// GenerateUUID generates a random (version 4) UUID string.
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}
	return id.String(), nil
}
