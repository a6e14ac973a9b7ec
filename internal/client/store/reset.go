package store

import (
	"context"
	"time"

	"github.com/deuceleague/deucecli/internal/client/models"
	"github.com/deuceleague/deucecli/internal/client/repositories/secrets"
	"github.com/deuceleague/deucecli/internal/common"
	"github.com/deuceleague/deucecli/internal/dbx"
)

// SetEmail starts (or restarts) a reset for email. Any verified code from
// an earlier attempt is discarded.
func (s *Store) SetEmail(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := secrets.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyOTP, keyVerifiedAt); err != nil {
			return err
		}
		return s.put(ctx, repo, keyEmail, email)
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "reset started", "email", common.MaskEmail(email))
	return nil
}

// SetVerifiedOtp records a backend-accepted code and stamps it with now.
func (s *Store) SetVerifiedOtp(ctx context.Context, email, otp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().UTC()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := secrets.NewSQLiteRepository(tx)
		if err := s.put(ctx, repo, keyEmail, email); err != nil {
			return err
		}
		if err := s.put(ctx, repo, keyOTP, otp); err != nil {
			return err
		}
		return s.put(ctx, repo, keyVerifiedAt, at)
	})
}

// GetVerifiedOtp returns nil when nothing was verified or the code is past
// its TTL.
func (s *Store) GetVerifiedOtp(ctx context.Context) (*models.VerifiedOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil || st == nil {
		return nil, err
	}
	if !s.fresh(st) {
		return nil, nil
	}
	return &models.VerifiedOTP{Email: st.Email, OTP: *st.OTP}, nil
}

// IsOtpValid reports whether a verified code exists and is within its TTL.
func (s *Store) IsOtpValid(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil || st == nil {
		return false, err
	}
	return s.fresh(st), nil
}

// Email returns the address of the reset in progress, or "".
func (s *Store) Email(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var email string
	if _, err := s.get(ctx, secrets.NewSQLiteRepository(s.db), keyEmail, &email); err != nil {
		return "", err
	}
	return email, nil
}

// ResetState returns everything stored for the reset in progress, or nil.
func (s *Store) ResetState(ctx context.Context) (*models.ResetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// ClearAll removes every reset key. The login session is kept.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return secrets.NewSQLiteRepository(tx).Delete(ctx, resetKeys...)
	})
}

func (s *Store) load(ctx context.Context) (*models.ResetState, error) {
	repo := secrets.NewSQLiteRepository(s.db)

	var st models.ResetState
	ok, err := s.get(ctx, repo, keyEmail, &st.Email)
	if err != nil || !ok {
		return nil, err
	}

	var otp string
	var at time.Time
	hasOTP, err := s.get(ctx, repo, keyOTP, &otp)
	if err != nil {
		return nil, err
	}
	hasAt, err := s.get(ctx, repo, keyVerifiedAt, &at)
	if err != nil {
		return nil, err
	}
	if hasOTP && hasAt {
		st.OTP = &otp
		st.VerifiedAt = &at
	}
	return &st, nil
}

func (s *Store) fresh(st *models.ResetState) bool {
	if !st.Verified() {
		return false
	}
	return s.now().Sub(*st.VerifiedAt) < s.ttl
}
