package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// opaqueTokenBytes is the entropy of refresh and magic link tokens.
const opaqueTokenBytes = 32

// GenerateOpaqueToken returns a URL-safe random token. The raw value
// is handed to the client; only its hash is stored.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokenHasher computes keyed hashes of opaque tokens so a database
// leak does not expose usable credentials.
type TokenHasher struct {
	key []byte
}

func NewTokenHasher(key string) *TokenHasher {
	return &TokenHasher{key: []byte(key)}
}

func (h *TokenHasher) Hash(token string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func newJTI() string {
	return uuid.NewString()
}
