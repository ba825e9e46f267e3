// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published after a successful registration.  It
// contains enough information for downstream consumers to send a welcome
// mail or feed analytics without querying the user store.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
}
