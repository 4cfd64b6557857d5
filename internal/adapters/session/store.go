package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/f2re/diplom-monitor/internal/adapters/remote"
	"github.com/f2re/diplom-monitor/internal/core/grid"
)

var (
	_ grid.Session       = (*Store)(nil)
	_ remote.TokenSource = (*Store)(nil)
)

// Store holds the bearer token for the current process and resolves the
// active user from its claims. Claims are read without signature
// verification: the client has no signing secret and the server re-checks
// the token on every call anyway.
type Store struct {
	mu    sync.RWMutex
	token string
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.SetToken("")
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUserID returns the token subject, or ok=false when there is no
// token, the token is malformed, or it has expired.
func (s *Store) CurrentUserID() (string, bool) {
	token := s.Token()
	if token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return "", false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
