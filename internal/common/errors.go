// Package common defines shared sentinel errors and small helpers used across
// the Deuce client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Local storage errors.
	ErrorNotFound = errors.New("not found")
	ErrorCorrupt  = errors.New("stored value is corrupt")

	// Session errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
