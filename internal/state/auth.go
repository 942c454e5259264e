package state

import "github.com/buzmarkt/storefront/internal/auth"

// AuthState holds the signed-in user. User is nil and Token empty while
// logged out.
type AuthState struct {
	User  *auth.User `json:"user"`
	Token string     `json:"token,omitempty"`
	Lifecycle
}

// Authenticated reports whether both token and profile are present.
func (a AuthState) Authenticated() bool {
	return a.User != nil && a.Token != ""
}

func reduceAuth(s AuthState, a AuthAction) AuthState {
	switch a := a.(type) {
	case AuthPending:
		s.Lifecycle = s.Lifecycle.pending()

	case AuthFulfilled:
		user := a.User
		s.User = &user
		s.Token = a.Token
		s.Lifecycle = s.Lifecycle.fulfilled()

	case AuthRejected:
		s.Lifecycle = s.Lifecycle.rejected(a.Message)

	case Logout:
		s.User = nil
		s.Token = ""
		s.Error = ""

	case ClearAuthError:
		s.Error = ""
	}
	return s
}
