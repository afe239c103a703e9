// Package session maps opaque session tokens to an optional user identity.
//
// Unknown or expired tokens are not errors: Resolve mints a fresh anonymous
// session instead. A token reused right after logout therefore looks exactly
// like a new visitor.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Session is the identity context of a request.
type Session struct {
	Token  string `json:"token"`
	UserID *uint  `json:"userId,omitempty"`
}

// Anonymous reports whether no user is attached.
func (s Session) Anonymous() bool {
	return s.UserID == nil
}

// Registry stores sessions.
type Registry interface {
	// Resolve returns the session for token. If token is empty or unknown a
	// new anonymous session is registered and created is true.
	Resolve(ctx context.Context, token string) (sess Session, created bool, err error)
	// Attach associates userID with the session identified by token.
	Attach(ctx context.Context, token string, userID uint) error
	// Detach removes the session. Detaching an unknown token succeeds.
	Detach(ctx context.Context, token string) error
}

// NewToken returns a high-entropy opaque token.
func NewToken() string {
	return uuid.NewString()
}
