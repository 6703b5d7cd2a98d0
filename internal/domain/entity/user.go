package entity

import "time"

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	RegisteredAt time.Time
}
