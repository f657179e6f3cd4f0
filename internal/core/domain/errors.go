package domain

import "errors"

var (
	// ErrUserNotFound marks a lookup for a user id or name that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists marks a uniqueness conflict on user creation.
	ErrUserExists = errors.New("user already exists")
	// ErrRoleNotFound marks a lookup for a role name that does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleExists marks a uniqueness conflict on role creation. The role
	// registry absorbs it by re-reading; it never reaches a caller.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleIntegrity means a role was absent even after a uniqueness
	// conflict forced a re-read. It signals a defect, not a user error.
	ErrRoleIntegrity = errors.New("role missing after uniqueness conflict")
	// ErrInvalidCredentials marks a failed name/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserSave wraps an unexpected failure while persisting a new user.
	ErrUserSave = errors.New("error saving user")
	// ErrUserUpdate wraps an unexpected failure while persisting an update.
	ErrUserUpdate = errors.New("error updating user")
	// ErrSessionNotFound marks a token the store has never seen, or one it
	// has fully forgotten. The bearer is treated as anonymous.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired marks a token that was valid once: evicted by a
	// newer login, logged out of sight, or idle past the timeout. Distinct
	// from ErrSessionNotFound so the caller can signal "expired" rather
	// than "never authenticated".
	ErrSessionExpired = errors.New("session expired")
)
