// Package store is the device-local secure store. It keeps the in-progress
// password reset and the login session sealed with AES-256-GCM in a SQLite
// file under the data directory.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/deuceleague/deucecli/internal/client/client"
	"github.com/deuceleague/deucecli/internal/client/repositories/metadata"
	"github.com/deuceleague/deucecli/internal/client/repositories/secrets"
	"github.com/deuceleague/deucecli/internal/common"
	"github.com/deuceleague/deucecli/internal/cryptox"
	"github.com/deuceleague/deucecli/internal/filex"
	"github.com/deuceleague/deucecli/internal/logging"
)

const (
	DBFileName  = "deuce.db"
	KeyFileName = "device.key"

	keyEmail      = "reset.email"
	keyOTP        = "reset.otp"
	keyVerifiedAt = "reset.verified_at"
	keySession    = "session"

	metaSalt   = "device.salt"
	saltSize   = 16
	secretSize = 32
)

var resetKeys = []string{keyEmail, keyOTP, keyVerifiedAt}

// Store is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for TTL tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open prepares dir, opens or creates the database and derives the device
// key. ttl is how long a verified OTP stays usable.
func Open(ctx context.Context, dir string, ttl time.Duration, opts ...Option) (*Store, error) {
	if ttl <= 0 {
		return nil, errors.New("otp ttl must be positive")
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	secret, err := filex.LoadOrCreateSecret(filepath.Join(abs, KeyFileName), secretSize)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(secret)

	db, err := client.InitDatabase(ctx, filepath.Join(abs, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	salt, err := loadOrCreateSalt(ctx, metadata.NewSQLiteRepository(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:     db,
		key:    cryptox.DeriveDeviceKey(secret, salt),
		ttl:    ttl,
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func loadOrCreateSalt(ctx context.Context, meta metadata.Repository) ([]byte, error) {
	salt, err := meta.Get(ctx, metaSalt)
	if err != nil {
		return nil, err
	}
	if salt != nil {
		return salt, nil
	}

	salt = common.GenerateRandByteArray(saltSize)
	if err := meta.Set(ctx, metaSalt, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Close wipes the key and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	common.WipeByteArray(s.key)
	return s.db.Close()
}

func (s *Store) put(ctx context.Context, repo secrets.Repository, key string, v any) error {
	ct, nonce, err := cryptox.Seal(v, s.key, []byte(key))
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return repo.Put(ctx, secrets.Sealed{Key: key, Nonce: nonce, Value: ct, UpdatedAt: s.now()})
}

// get opens key into v. It reports false when the key is absent and wraps
// common.ErrorCorrupt when the value cannot be opened.
func (s *Store) get(ctx context.Context, repo secrets.Repository, key string, v any) (bool, error) {
	sealed, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := cryptox.Open(sealed.Value, sealed.Nonce, s.key, []byte(key), v); err != nil {
		s.logger.Warn(ctx, "stored value unreadable", "key", key, "error", err)
		return false, fmt.Errorf("%s: %w", key, common.ErrorCorrupt)
	}
	return true, nil
}
