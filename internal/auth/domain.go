package auth

import "time"

// User is the identity record consumed by authentication flows.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthResult is the payload returned to callers after login/registration.
type AuthResult struct {
	IsAuthenticated bool      `json:"is_authenticated"`
	Message         string    `json:"message"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Token           string    `json:"token"`
	ExpiresOn       time.Time `json:"expires_on"`
	Roles           []string  `json:"roles"`
}

// AuthEvent describes an authentication outcome for the audit trail.
type AuthEvent struct {
	Kind     string    `json:"kind"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Success  bool      `json:"success"`
	At       time.Time `json:"at"`
}
