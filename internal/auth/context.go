package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

type UserContext struct {
	UserID string
	Email  string
	Role   string
}

type ctxKey struct{}

const ginKey = "auth_user"

func WithUser(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// GetUser returns the authenticated user from a request context or a gin
// context, nil when the request is anonymous.
func GetUser(ctx context.Context) *UserContext {
	if c, ok := ctx.(*gin.Context); ok {
		if val, exists := c.Get(ginKey); exists {
			if u, ok := val.(*UserContext); ok {
				return u
			}
		}
		ctx = c.Request.Context()
	}
	if u, ok := ctx.Value(ctxKey{}).(*UserContext); ok {
		return u
	}
	return nil
}

// GetUserID is a convenience for audit fields; empty when anonymous.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
