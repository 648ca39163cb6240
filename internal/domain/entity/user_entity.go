package entity

import (
	"time"
)

// User is the aggregate root for accounts.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
