package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// shareTokenBytes gives 256 bits of entropy per token, the same primitive
// for share tokens and invitation tokens.
const shareTokenBytes = 32

// GenerateSecureToken returns an unguessable URL-safe token.
func GenerateSecureToken() (string, error) {
	token := make([]byte, shareTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return hex.EncodeToString(token), nil
}
