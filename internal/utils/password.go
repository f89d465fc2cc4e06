package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of plain.  A cost below the
// bcrypt minimum falls back to the library default so a misconfigured
// BCRYPT_COST cannot silently weaken stored hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt
// hash.  The comparison is constant-time inside bcrypt; callers only
// see pass/fail.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
