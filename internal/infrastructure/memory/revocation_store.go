package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.SessionRevocationStore = (*RevocationStore)(nil)

type revokedUser struct {
	at      time.Time
	expires time.Time
}

// RevocationStore revocación de sesiones en memoria (una sola instancia de la API).
type RevocationStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // jti -> expiración
	users  map[string]revokedUser
	now    func() time.Time
}

// NewRevocationStore crea un store vacío.
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{
		tokens: make(map[string]time.Time),
		users:  make(map[string]revokedUser),
		now:    time.Now,
	}
}

func (s *RevocationStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenID] = s.now().Add(ttl)
	return nil
}

func (s *RevocationStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.tokens, tokenID)
		return false, nil
	}
	return true, nil
}

func (s *RevocationStore) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = revokedUser{at: at, expires: s.now().Add(ttl)}
	return nil
}

func (s *RevocationStore) UserRevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return time.Time{}, false, nil
	}
	if !s.now().Before(u.expires) {
		delete(s.users, userID)
		return time.Time{}, false, nil
	}
	return u.at, true, nil
}
