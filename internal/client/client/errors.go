package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrTimeout         = errors.New("request timed out")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRateLimited     = errors.New("rate limited")
	ErrOTPExpired      = errors.New("code expired")
	ErrOTPUsed         = errors.New("code already used")
	ErrOTPInvalid      = errors.New("code invalid")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrWeakPassword    = errors.New("password rejected by policy")
	ErrNotFound        = errors.New("not found")
)

// Backend error codes carried in the error envelope.
const (
	CodeOTPExpired      = "OTP_EXPIRED"
	CodeOTPUsed         = "OTP_ALREADY_USED"
	CodeOTPInvalid      = "OTP_INVALID"
	CodeTooManyAttempts = "TOO_MANY_ATTEMPTS"
	CodeRateLimited     = "RATE_LIMITED"
	CodeWeakPassword    = "WEAK_PASSWORD"
)

// APIError is a non-2xx response. Err is the matching sentinel, if any, so
// callers can use errors.Is(err, ErrOTPExpired) and friends.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// mapStatus attaches a sentinel to a backend error. Error codes take
// precedence over HTTP status.
func mapStatus(status int, code, message string) error {
	e := &APIError{Status: status, Code: code, Message: message}

	switch code {
	case CodeOTPExpired:
		e.Err = ErrOTPExpired
	case CodeOTPUsed:
		e.Err = ErrOTPUsed
	case CodeOTPInvalid:
		e.Err = ErrOTPInvalid
	case CodeTooManyAttempts:
		e.Err = ErrTooManyAttempts
	case CodeRateLimited:
		e.Err = ErrRateLimited
	case CodeWeakPassword:
		e.Err = ErrWeakPassword
	}
	if e.Err != nil {
		return e
	}

	switch {
	case status == http.StatusTooManyRequests:
		e.Err = ErrRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		e.Err = ErrUnauthorized
	case status == http.StatusNotFound:
		e.Err = ErrNotFound
	case status >= 500:
		e.Err = ErrUnavailable
	}
	return e
}
