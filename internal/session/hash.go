// Package session provides the hashing primitive for session tokens.
// Session rows are keyed by the hashed form of the token the client holds,
// so a leaked table never exposes usable tokens.
package session

import (
	"crypto/sha1"
	"encoding/hex"
)

// HashToken returns the stored form of a raw session token: lowercase
// hex-encoded SHA-1.
func HashToken(token string) string {
	sum := sha1.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}
