package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserContext carries the authenticated user's identity through a request
type UserContext struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}

type contextKey string

const userContextKey contextKey = "user_context"

// NewContext returns a context carrying the given user
func NewContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts the user from a context, if present
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}
