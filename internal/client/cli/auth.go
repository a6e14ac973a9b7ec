package cli

import (
	"context"
	"errors"

	"github.com/deuceleague/deucecli/internal/client/client"
	"github.com/deuceleague/deucecli/internal/client/resetflow"
	"github.com/deuceleague/deucecli/internal/client/services"
	"github.com/deuceleague/deucecli/internal/common"
)

const (
	msgBadCredentials = "Wrong email or password."
	msgNotLoggedIn    = "You are not logged in. Type 'login' first."
)

// Login prompts for credentials and signs in. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "login unsuccessful", "email", common.MaskEmail(email), "error", err)
		a.println(errorMessage(err))
		return err
	}

	a.printf("Logged in as %s\n", sess.Email)
	return nil
}

// Logout drops the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.println(errorMessage(err))
		return err
	}
	a.println("Logged out.")
	return nil
}

// Me prints the signed-in player's profile.
func (a *App) Me(ctx context.Context) error {
	p, err := a.authService.Me(ctx)
	if err != nil {
		a.println(errorMessage(err))
		return err
	}

	a.printf("%s <%s>\n", p.Name, p.Email)
	if p.DMRProvisional {
		a.printf("DMR: %.2f (provisional)\n", p.DMR)
	} else {
		a.printf("DMR: %.2f\n", p.DMR)
	}
	a.printf("Matches played: %d\n", p.MatchesPlayed)
	return nil
}

// Ping reports whether the backend answers.
func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		a.println(errorMessage(err))
		return err
	}
	a.println("Server is up.")
	return nil
}

// errorMessage turns a service error into one line for the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		return msgNotLoggedIn
	case errors.Is(err, client.ErrUnauthorized):
		return msgBadCredentials
	case errors.Is(err, client.ErrTimeout):
		return resetflow.MsgTimeout
	case errors.Is(err, client.ErrUnavailable):
		return resetflow.MsgUnavailable
	case errors.Is(err, client.ErrRateLimited):
		return resetflow.MsgRateLimited
	default:
		return resetflow.MsgUnexpected
	}
}
