package client

import (
	"context"

	"github.com/deuceleague/deucecli/internal/client/models"
)

// Client is the Deuce backend contract used by the flows and services.
type Client interface {
	SendOTP(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp string, password []byte) error

	Login(ctx context.Context, email string, password []byte) (*models.Tokens, error)
	Me(ctx context.Context, accessToken string) (*models.Profile, error)
	MatchHistory(ctx context.Context, accessToken string, page, limit int) (*models.MatchPage, error)

	Ping(ctx context.Context) error
	Close() error
}
