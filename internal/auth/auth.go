// Package auth provides the authentication collaborator: login, logout,
// current-user lookup, and token refresh against the remote identity
// endpoints. The held access token is consumed by the gateway as its
// bearer credential.
package auth

import (
	"context"
	"time"
)

// User describes the authenticated account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Agency    string    `json:"agency,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Authenticator defines the authentication operations consumed by the client.
type Authenticator interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, email, password string) (*User, error)

	// Logout invalidates the current session token.
	Logout(ctx context.Context) error

	// CurrentUser returns the account owning the current session.
	CurrentUser(ctx context.Context) (*User, error)

	// Refresh exchanges the current token for a fresh one.
	Refresh(ctx context.Context) error

	// Token returns the current access token, or empty when logged out.
	Token() string
}
