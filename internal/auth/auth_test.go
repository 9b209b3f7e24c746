package auth

import (
	"context"
	"testing"
	"time"

	"paygate/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func TestParseToken(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{
		"sub":   "u1",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	u, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "user@example.com", u.Email)
}

func TestParseTokenRejectsBadSecret(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"email": "user@example.com"})
	_, err := ParseToken("other-secret", tok)
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{
		"email": "user@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	_, err := ParseToken(testSecret, tok)
	require.Error(t, err)
}

func TestParseTokenRequiresEmail(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "u1"})
	_, err := ParseToken(testSecret, tok)
	require.Error(t, err)
}

func TestContextResolver(t *testing.T) {
	r := NewContextResolver()

	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, user.ErrNotAuthenticated)

	ctx := WithUser(context.Background(), user.User{ID: "u1", Email: "user@example.com"})
	u, err := r.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", u.Email)
}
