package identity

import "time"

// User is one row of the identity store. The salt and hash are always
// written together.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordSalt string
	PasswordHash string
	CreatedAt    time.Time
}
