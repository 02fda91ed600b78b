package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash. The salt is embedded by
// bcrypt, so the same password hashes differently on every call.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", errors.Wrap(err, ErrHashingFailure.Category, ErrHashingFailure.Message).
			WithTextCode(ErrHashingFailure.TextCode)
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password. A malformed hash is reported as the same
// mismatch error so the caller cannot distinguish it from a bad
// password.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash returns the hash of a random throwaway password,
// used as a placeholder for accounts that cannot log in with one.
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
