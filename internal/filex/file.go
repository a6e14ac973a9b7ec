// Package filex holds filesystem helpers for the client's data directory.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/deuceleague/deucecli/internal/common"
)

// EnsureDir creates dir (and parents) readable only by the current user and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// LoadOrCreateSecret returns the contents of the secret file at path. When
// the file does not exist it is created with size random bytes and mode 0600.
// A file of the wrong length is reported as common.ErrorCorrupt.
func LoadOrCreateSecret(path string, size int) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != size {
			return nil, fmt.Errorf("secret %s: %w", path, common.ErrorCorrupt)
		}
		return b, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read secret %s: %w", path, err)
	}

	secret := common.GenerateRandByteArray(size)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// lost a race with another process; use its secret
			return LoadOrCreateSecret(path, size)
		}
		return nil, fmt.Errorf("create secret %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(secret); err != nil {
		return nil, fmt.Errorf("write secret %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("sync secret %s: %w", path, err)
	}

	return secret, nil
}
