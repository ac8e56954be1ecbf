// Package models defines the core data structures shared by the client
// and the identity stub.
package models

import "time"

// Owner is the authenticated user returned by the identity service and
// held by the session context.
type Owner struct {
	// ID is the unique identifier assigned by the identity service.
	ID string `json:"id"`
	// Username is the identifier the owner registered with.
	Username string `json:"username"`
	// Token is the bearer token for authenticated calls.
	Token string `json:"token"`
	// ExpiresAt is when Token stops being accepted.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the owner's token has expired at now.
// A zero ExpiresAt never expires.
func (o Owner) Expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && !now.Before(o.ExpiresAt)
}

// Credentials holds the registration form input.
type Credentials struct {
	// Identifier is the e-mail shaped username. It is not validated locally.
	Identifier string
	// Password is the chosen password.
	Password string
	// PasswordConfirmation must equal Password exactly.
	PasswordConfirmation string `validate:"eqfield=Password"`
}

// Request returns the outbound registration payload. The confirmation
// never leaves the client.
func (c Credentials) Request() RegisterRequest {
	return RegisterRequest{Username: c.Identifier, Password: c.Password}
}

// RegisterRequest is the JSON payload sent to the identity service.
type RegisterRequest struct {
	// Username is the login to register.
	Username string `json:"username" validate:"required,email"`
	// Password is the plain password; the service hashes it.
	Password string `json:"password" validate:"min=6"`
}
