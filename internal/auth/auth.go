package auth

import (
	"context"
	"fmt"

	"paygate/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxUser ctxKey = "current_user"

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(ctxUser).(user.User)
	return u, ok
}

// Resolver yields the authenticated caller for a request, or
// user.ErrNotAuthenticated.
type Resolver interface {
	Resolve(ctx context.Context) (user.User, error)
}

// ContextResolver resolves the user placed in the request context by the
// bearer-token middleware.
type ContextResolver struct{}

func NewContextResolver() *ContextResolver { return &ContextResolver{} }

func (ContextResolver) Resolve(ctx context.Context) (user.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok || u.Email == "" {
		return user.User{}, user.ErrNotAuthenticated
	}
	return u, nil
}

// ParseToken validates an HS256 access token and extracts the caller
// identity from its claims.
func ParseToken(secret, token string) (user.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return user.User{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return user.User{}, fmt.Errorf("invalid token claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return user.User{}, fmt.Errorf("token missing email claim")
	}
	sub, _ := claims["sub"].(string)
	return user.User{ID: sub, Email: email}, nil
}
