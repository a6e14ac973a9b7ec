// Package client contains the client-side building blocks that reach
// outside the process.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface) for the
//     Deuce backend: the password-reset OTP endpoints, login, profile,
//     match history and a health ping.
//  2. A JSON/REST implementation (see HTTPClient). Every call goes through
//     one request path that applies the configured timeout, tags the request
//     with an X-Request-ID and maps failures to sentinel errors. Calls are
//     never retried; recovery is the user's next attempt.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite file and applying embedded goose migrations.
//
// # Error Handling
//
// Transport: ErrTimeout (retryable), ErrUnavailable. Backend: *APIError
// unwrapping to ErrOTPExpired, ErrOTPUsed, ErrOTPInvalid,
// ErrTooManyAttempts, ErrRateLimited, ErrWeakPassword, ErrUnauthorized,
// ErrNotFound. Match with errors.Is.
package client
