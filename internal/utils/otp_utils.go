package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashOTPCode hashes a one-time code using bcrypt so codes are never stored in
// the clear. MinCost is enough: codes live for minutes and verification is
// rate-limited upstream.
func HashOTPCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	return string(hash), err
}

// CheckOTPCodeHash compares a plaintext code with a bcrypt hash.
func CheckOTPCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
