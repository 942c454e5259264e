package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredentials is returned by Credentials.Validate.
var ErrMissingCredentials = errors.New("email and password are required")

// Credentials are exchanged for a session token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present. The store never sees
// credentials that fail validation.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Session is the result of a successful credential exchange.
type Session struct {
	ID    int    `json:"id,omitempty"`
	Token string `json:"token"`
}

// User is the profile of the signed-in account.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

type userEnvelope struct {
	Data User `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

// APIError carries the message the auth service put in its error body.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth api returned status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }
