// Package services contains application services for the Deuce client.
// This file defines the authentication service: login with session
// persistence, logout, profile lookup and the liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deuceleague/deucecli/internal/client/client"
	"github.com/deuceleague/deucecli/internal/client/models"
	"github.com/deuceleague/deucecli/internal/common"
	"github.com/deuceleague/deucecli/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned when no usable session is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// SessionStore keeps the login session on the device.
type SessionStore interface {
	SaveSession(ctx context.Context, s models.Session) error
	Session(ctx context.Context) (*models.Session, error)
	ClearSession(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the backend and persist the session.
//   - Logout: drop the stored session.
//   - CurrentSession: the stored session, or ErrNotLoggedIn once it expired.
//   - Me: fetch the signed-in player's profile.
//   - Ping: check backend liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*models.Session, error)
	Me(ctx context.Context) (*models.Profile, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client
// and the encrypted session store.
type authService struct {
	client client.Client
	store  SessionStore
	logger logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and store.
func NewAuthService(client client.Client, store SessionStore, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: client, store: store, logger: logger.With("component", "auth"), now: time.Now}
}

// Login exchanges credentials for tokens and stores them with the claims
// read from the access token.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	tokens, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	sess, err := sessionFromTokens(*tokens)
	if err != nil {
		return nil, err
	}
	if sess.Email == "" {
		sess.Email = email
	}

	if err := a.store.SaveSession(ctx, *sess); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.logger.Info(ctx, "logged in", "email", common.MaskEmail(sess.Email), "expires_at", sess.ExpiresAt)
	return sess, nil
}

// sessionFromTokens reads sub, email and exp without verifying the
// signature. The backend checks signatures on every request.
func sessionFromTokens(tokens models.Tokens) (*models.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokens.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	sess := &models.Session{Tokens: tokens}
	sess.Subject, _ = claims.GetSubject()
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time.UTC()
	}
	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.ClearSession(ctx)
}

// CurrentSession returns ErrNotLoggedIn for a missing or expired session.
// An expired session is removed.
func (a *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	sess, err := a.store.Session(ctx)
	if errors.Is(err, common.ErrorCorrupt) {
		a.logger.Warn(ctx, "dropping unreadable session", "error", err)
		_ = a.store.ClearSession(ctx)
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if sess.Expired(a.now()) {
		if err := a.store.ClearSession(ctx); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNotLoggedIn, common.ErrTokenExpired)
	}
	return sess, nil
}

// Me fetches the profile. A rejected token logs the user out.
func (a *authService) Me(ctx context.Context) (*models.Profile, error) {
	sess, err := a.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	p, err := a.client.Me(ctx, sess.AccessToken)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.store.ClearSession(ctx)
		return nil, fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}
	return p, err
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
