// Package cryptox seals small values for on-device storage.
//
// Values are JSON-encoded and encrypted with AES-256-GCM under a device key
// derived with Argon2id from a random per-device secret.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of a derived device key (AES-256).
const KeySize = 32

var ErrKeySize = errors.New("device key must be 32 bytes")

// DeriveDeviceKey stretches secret with Argon2id. Same inputs give the same key.
func DeriveDeviceKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal serializes v to JSON and encrypts it with AES-GCM. A fresh random
// nonce is generated per call and returned alongside the ciphertext.
// additionalData binds the ciphertext to its storage key so a value cannot
// be swapped under another key.
func Seal(v any, key, additionalData []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal: %w", err)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, additionalData), nonce, nil
}

// Open reverses Seal and unmarshals the plaintext into v.
func Open(ciphertext, nonce, key, additionalData []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return fmt.Errorf("open: bad nonce length %d", len(nonce))
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	return json.Unmarshal(plaintext, v)
}
