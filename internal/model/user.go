package model

import "time"

// User represents an application user record as kept by the user store.
// PasswordHash holds the bcrypt hash of the password; the plaintext is never
// retained.  Email is stored normalized (trimmed, lower-cased) and is the
// unique login key.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the client-facing view of a user.  It exists so that no
// response path can serialize the password hash by accident.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the credential material from a user record.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
