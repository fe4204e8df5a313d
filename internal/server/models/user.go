// Package models defines the storage-side records the repositories persist.
// Externally visible representations live in the transport layer, which never
// exposes password hashes, session tokens, or avatar binaries.
package models

import "time"

type User struct {
	ID           string
	Name         string
	Age          int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
