package models

import "time"

// User is an account on the sharing server. PasswordHash is a bcrypt
// digest; the clear-text password never touches storage.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
