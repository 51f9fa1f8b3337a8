package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used by Hash. Tests drop it to
// bcrypt.MinCost.
var Cost = 12

// Hash returns the bcrypt hash stored on an identity
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	return string(h), err
}

// Verify reports whether plain matches the stored bcrypt hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken is the lookup key for a refresh token. Tokens are long random
// JWTs, so a fast unsalted digest is enough.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
