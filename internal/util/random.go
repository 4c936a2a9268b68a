package util

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomToken returns n cryptographically secure random bytes encoded as
// unpadded base64url, safe to use in query strings and cookies.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
