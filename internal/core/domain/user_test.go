package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

func TestNewUser(t *testing.T) {
	t.Run("Success: creates user with defaults", func(t *testing.T) {
		u, err := domain.NewUser("u1", "  Student@Example.COM ", "  Anna Rossi  ")

		assert.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "student@example.com", u.Email, "email must be trimmed and lowercased")
		assert.Equal(t, "Anna Rossi", u.FullName)
		assert.Equal(t, domain.DefaultEmoji, u.Emoji)
		assert.False(t, u.IsSuperuser)
		assert.Nil(t, u.TelegramID)
		assert.True(t, u.StartDate.IsZero())
		assert.WithinDuration(t, time.Now().UTC(), u.CreatedAt, 2*time.Second)
	})

	t.Run("Error: invalid email", func(t *testing.T) {
		_, err := domain.NewUser("u1", "not-an-email", "Anna")
		assert.Equal(t, domain.ErrInvalidEmail, err)
	})
}

func TestUser_Password(t *testing.T) {
	t.Run("Success: set then check round-trips", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "a@b.com", "Anna")

		assert.NoError(t, u.SetPassword("correct-horse"))
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotContains(t, u.PasswordHash, "correct-horse")

		assert.NoError(t, u.CheckPassword("correct-horse"))
		assert.Error(t, u.CheckPassword("wrong-horse"))
	})

	t.Run("Error: password shorter than 8 runes", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "a@b.com", "Anna")
		assert.Equal(t, domain.ErrPasswordTooShort, u.SetPassword("short"))
		assert.Empty(t, u.PasswordHash)
	})
}

func TestUser_GoalRange(t *testing.T) {
	fallback := domain.GlobalConfig{
		StartDate: domain.NewDate(2024, time.September, 1),
		Deadline:  domain.NewDate(2025, time.June, 30),
	}

	t.Run("Falls back to global config when personal dates are unset", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "a@b.com", "Anna")
		assert.Equal(t, fallback, u.GoalRange(fallback))
	})

	t.Run("Falls back when only one personal date is set", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "a@b.com", "Anna")
		u.StartDate = domain.NewDate(2024, time.October, 1)
		assert.Equal(t, fallback, u.GoalRange(fallback))
	})

	t.Run("Personal dates override the global range", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "a@b.com", "Anna")
		u.StartDate = domain.NewDate(2024, time.October, 1)
		u.Deadline = domain.NewDate(2025, time.March, 31)

		got := u.GoalRange(fallback)
		assert.True(t, got.StartDate.Equal(u.StartDate))
		assert.True(t, got.Deadline.Equal(u.Deadline))
	})
}
