package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used when callers do not configure
// one.  Cost 12 keeps a single hash around a quarter second on current
// hardware, slow enough to blunt offline guessing.
const DefaultBcryptCost = 12

// HashPassword derives a salted bcrypt hash of plain at the given cost.
// Non-positive costs fall back to DefaultBcryptCost; bcrypt itself rejects
// costs above 31.
func HashPassword(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// Malformed hashes count as a mismatch rather than an error, so callers
// never branch differently on corrupt credential rows.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
