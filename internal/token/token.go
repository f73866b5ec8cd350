// Package token generates the opaque confirmation tokens handed to
// guests who claim a gift through the external-link flow. The token is
// the only credential behind the public confirmation URL, so it has to
// be unguessable and carry no structure tying it to the purchase.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const tokenBytes = 24

// New returns a URL-safe random token with 192 bits of entropy.
func New() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
