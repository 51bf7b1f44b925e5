package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomString returns n random bytes as unpadded base64url.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("utils: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
