package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2re/diplom-monitor/internal/adapters/repository"
	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/services"
)

func newTokenFixture(t *testing.T) (*services.TokenService, *domain.User) {
	t.Helper()

	repo := repository.NewInMemoryUserRepository()
	user, err := domain.NewUser("u1", "a@test.com", "Anna")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), user))

	return services.NewTokenService("test-secret", "diplom-monitor", time.Hour, repo), user
}

func TestTokenService(t *testing.T) {
	t.Run("Success: generate then validate round-trips the user id", func(t *testing.T) {
		svc, user := newTokenFixture(t)

		token, err := svc.GenerateToken(user.ID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := svc.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, got)
	})

	t.Run("Error: token signed with a different secret", func(t *testing.T) {
		svc, user := newTokenFixture(t)
		other := services.NewTokenService("other-secret", "diplom-monitor", time.Hour, repository.NewInMemoryUserRepository())

		token, err := other.GenerateToken(user.ID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Error: wrong issuer", func(t *testing.T) {
		svc, user := newTokenFixture(t)
		imposter := services.NewTokenService("test-secret", "someone-else", time.Hour, repository.NewInMemoryUserRepository())

		token, err := imposter.GenerateToken(user.ID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Error: expired token", func(t *testing.T) {
		repo := repository.NewInMemoryUserRepository()
		user, err := domain.NewUser("u1", "a@test.com", "Anna")
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), user))

		svc := services.NewTokenService("test-secret", "diplom-monitor", -time.Minute, repo)
		token, err := svc.GenerateToken(user.ID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Error: token for a user that no longer exists", func(t *testing.T) {
		svc, _ := newTokenFixture(t)

		token, err := svc.GenerateToken("deleted-user")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Error: garbage token", func(t *testing.T) {
		svc, _ := newTokenFixture(t)

		_, err := svc.ValidateToken("not.a.jwt")
		assert.Error(t, err)
	})
}
