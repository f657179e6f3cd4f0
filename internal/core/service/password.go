package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// EncodePassword hashes a plaintext password with bcrypt. Each call salts
// independently, so two encodings of the same plaintext differ byte-for-byte
// while both verify against it.
func EncodePassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("encode password: %w", err)
	}
	return string(hash), nil
}

// ProcessPassword decides the stored hash for an update. A non-empty
// supplied plaintext is encoded fresh; an empty one keeps the existing hash,
// so an update that omits the password never destroys the credential.
func ProcessPassword(existingHash, supplied string) (string, error) {
	if supplied == "" {
		return existingHash, nil
	}
	return EncodePassword(supplied)
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
func VerifyPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
