package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed so every stored hash carries the same work factor.
const bcryptCost = 8

// HashPassword derives a salted one-way hash from the raw password.
// The raw value must never be persisted or logged.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether raw matches the stored hash. bcrypt's
// comparison is constant time with respect to the candidate value.
func CheckPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
