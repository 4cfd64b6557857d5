package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2re/diplom-monitor/internal/adapters/session"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return token
}

func TestStore_CurrentUserID(t *testing.T) {
	t.Run("Success: resolves the subject claim", func(t *testing.T) {
		store := session.NewStore()
		store.SetToken(signToken(t, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(time.Hour).Unix(),
		}))

		id, ok := store.CurrentUserID()

		assert.True(t, ok)
		assert.Equal(t, "u1", id)
	})

	t.Run("No token means no user", func(t *testing.T) {
		store := session.NewStore()

		_, ok := store.CurrentUserID()

		assert.False(t, ok)
	})

	t.Run("Expired token is rejected locally", func(t *testing.T) {
		store := session.NewStore()
		store.SetToken(signToken(t, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}))

		_, ok := store.CurrentUserID()

		assert.False(t, ok)
	})

	t.Run("Token without an exp claim still resolves", func(t *testing.T) {
		store := session.NewStore()
		store.SetToken(signToken(t, jwt.MapClaims{"sub": "u1"}))

		id, ok := store.CurrentUserID()

		assert.True(t, ok)
		assert.Equal(t, "u1", id)
	})

	t.Run("Malformed token is rejected", func(t *testing.T) {
		store := session.NewStore()
		store.SetToken("definitely-not-a-jwt")

		_, ok := store.CurrentUserID()

		assert.False(t, ok)
	})

	t.Run("Missing subject is rejected", func(t *testing.T) {
		store := session.NewStore()
		store.SetToken(signToken(t, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}))

		_, ok := store.CurrentUserID()

		assert.False(t, ok)
	})

	t.Run("Clear drops the session", func(t *testing.T) {
		store := session.NewStore()
		store.SetToken(signToken(t, jwt.MapClaims{"sub": "u1"}))
		require.NotEmpty(t, store.Token())

		store.Clear()

		assert.Empty(t, store.Token())
		_, ok := store.CurrentUserID()
		assert.False(t, ok)
	})
}
