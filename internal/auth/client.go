package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buzmarkt/storefront/internal/remote"
)

// DefaultBaseURL is the public demo auth service.
const DefaultBaseURL = "https://reqres.in/api"

// ErrMalformedResponse is returned when a payload cannot be decoded or is
// missing required fields.
var ErrMalformedResponse = remote.ErrMalformedResponse

// Authenticator defines the remote auth operations. It is implemented by
// *Client and can be faked in tests.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (Session, error)
	Register(ctx context.Context, creds Credentials) (Session, error)
	FetchUser(ctx context.Context, id int) (User, error)
}

// Ensure Client implements Authenticator at compile time.
var _ Authenticator = (*Client)(nil)

// Client talks to the remote auth API.
type Client struct {
	api *remote.Client
}

// NewClient builds a Client for baseURL, falling back to DefaultBaseURL.
func NewClient(baseURL string, opts ...remote.Option) (*Client, error) {
	api, err := remote.New(baseURL, DefaultBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}
	return &Client{api: api}, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	return c.exchange(ctx, "/login", creds)
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, creds Credentials) (Session, error) {
	return c.exchange(ctx, "/register", creds)
}

// FetchUser retrieves a profile by id.
func (c *Client) FetchUser(ctx context.Context, id int) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	var payload userEnvelope
	if err := c.api.Get(ctx, "/users/"+strconv.Itoa(id), &payload); err != nil {
		return User{}, asAPIError(err)
	}
	if payload.Data.ID == 0 && payload.Data.Email == "" {
		return User{}, fmt.Errorf("%w: empty user payload", ErrMalformedResponse)
	}
	return payload.Data, nil
}

func (c *Client) exchange(ctx context.Context, path string, creds Credentials) (Session, error) {
	if c == nil {
		return Session{}, fmt.Errorf("client is nil")
	}
	var session Session
	if err := c.api.Post(ctx, path, creds, &session); err != nil {
		return Session{}, asAPIError(err)
	}
	if session.Token == "" {
		return Session{}, fmt.Errorf("%w: missing token", ErrMalformedResponse)
	}
	return session, nil
}

// asAPIError lifts a non-2xx response into an APIError carrying the
// service's own message when the body has one.
func asAPIError(err error) error {
	var statusErr *remote.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	apiErr := &APIError{Status: statusErr.Status, Err: err}
	var body errorBody
	if json.Unmarshal(statusErr.Body, &body) == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
