package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost matches the salt rounds used when accounts were first created.
const PasswordCost = 10

// HashPassword hashes the plain text password using bcrypt with a fresh salt.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// Any mismatch or malformed hash yields false.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
