// Package secrets persists sealed (encrypted) values in the local SQLite
// database. The repository never sees plaintext.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deuceleague/deucecli/internal/common"
	"github.com/deuceleague/deucecli/internal/dbx"
)

// Sealed is one encrypted row.
type Sealed struct {
	Key       string
	Nonce     []byte
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns common.ErrorNotFound for an absent key.
	Get(ctx context.Context, key string) (*Sealed, error)
	Put(ctx context.Context, s Sealed) error
	Delete(ctx context.Context, keys ...string) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*Sealed, error) {
	s := Sealed{Key: key}
	var updated int64

	err := r.db.QueryRowContext(ctx,
		`SELECT nonce, value, updated_at FROM secrets WHERE key = ?`, key,
	).Scan(&s.Nonce, &s.Value, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s]: %w", key, err)
	}

	s.UpdatedAt = time.UnixMilli(updated).UTC()
	return &s, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, s Sealed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO secrets (key, nonce, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			nonce = excluded.nonce,
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.Key, s.Nonce, s.Value, s.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put secret[%s]: %w", s.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete secret[%s]: %w", key, err)
		}
	}
	return nil
}
