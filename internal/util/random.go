// Package util holds small shared helpers.
package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Token returns a URL-safe random token from n bytes of entropy, used for
// participant codes and session tokens.
func Token(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
