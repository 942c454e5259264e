package state

import (
	"errors"
	"strings"

	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
)

// Lifecycle tracks the latest asynchronous operation of a slice. An empty
// Error means no error.
type Lifecycle struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func (Lifecycle) pending() Lifecycle {
	return Lifecycle{Loading: true}
}

func (l Lifecycle) fulfilled() Lifecycle {
	l.Loading = false
	return l
}

func (Lifecycle) rejected(message string) Lifecycle {
	return Lifecycle{Error: message}
}

const (
	msgCatalogFailed    = "Something went wrong"
	msgCategoriesFailed = "Failed to load categories"
	msgBrandsFailed     = "Failed to load brands"
	msgLoginFailed      = "Login failed"
	msgRegisterFailed   = "Registration failed"
)

// failureMessage maps a fetch error to the text stored in Lifecycle.Error.
// Malformed payloads get the generic fallback.
func failureMessage(err error, fallback string) string {
	if err == nil || errors.Is(err, catalog.ErrMalformedResponse) {
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// authFailureMessage keeps the auth service's own message and replaces
// everything else with fallback.
func authFailureMessage(err error, fallback string) string {
	var apiErr *auth.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}
