package models

import "time"

// User is a record in the user directory. PasswordDigest holds the one-way
// hash of the password, never the plaintext. A user is deactivated by setting
// Active to false; rows are never deleted.
type User struct {
	ID             string
	Username       string
	PasswordDigest string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
