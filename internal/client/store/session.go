package store

import (
	"context"

	"github.com/deuceleague/deucecli/internal/client/models"
	"github.com/deuceleague/deucecli/internal/client/repositories/secrets"
)

func (s *Store) SaveSession(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.put(ctx, secrets.NewSQLiteRepository(s.db), keySession, sess)
}

// Session returns the stored session, or nil when logged out.
func (s *Store) Session(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess models.Session
	ok, err := s.get(ctx, secrets.NewSQLiteRepository(s.db), keySession, &sess)
	if err != nil || !ok {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return secrets.NewSQLiteRepository(s.db).Delete(ctx, keySession)
}
