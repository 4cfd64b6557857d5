package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmojiAlreadyTaken  = errors.New("emoji already taken by another user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)

// DefaultEmoji is the cohort glyph assigned until the user picks their own.
const DefaultEmoji = "\U0001F393"

// User is a cohort member. StartDate and Deadline, when set, override the
// global goal range for this user's server-side stats.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Emoji        string    `json:"emoji" db:"emoji"`
	TelegramID   *int64    `json:"telegram_id,omitempty" db:"telegram_id"`
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`
	StartDate    Date      `json:"start_date,omitempty" db:"start_date"`
	Deadline     Date      `json:"deadline,omitempty" db:"deadline"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, email, fullName string) (*User, error) {
	email = strings.TrimSpace(email)

	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     strings.ToLower(email),
		FullName:  strings.TrimSpace(fullName),
		Emoji:     DefaultEmoji,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

// GoalRange returns the user's personal goal range when both dates are set,
// otherwise the fallback config.
func (u *User) GoalRange(fallback GlobalConfig) GlobalConfig {
	if !u.StartDate.IsZero() && !u.Deadline.IsZero() {
		return GlobalConfig{StartDate: u.StartDate, Deadline: u.Deadline}
	}
	return fallback
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
