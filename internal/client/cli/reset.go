package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/deuceleague/deucecli/internal/client/resetflow"
	"github.com/deuceleague/deucecli/internal/common"
)

const (
	inputCancel = "cancel"
	inputBack   = "back"
	inputResend = "resend"
)

// Forgot runs the password reset screens until the reset completes, the
// user cancels, or input ends. A cancelled reset resumes on the next run.
func (a *App) Forgot(ctx context.Context) error {
	out, err := a.flow.Resume(ctx)
	if err != nil {
		a.toast(out)
		return err
	}
	if out.Message != resetflow.MsgStart {
		a.toast(out)
	}

	var otp resetflow.OTPInput
	for {
		var (
			done bool
			err  error
		)
		switch a.flow.State() {
		case resetflow.AwaitingEmail:
			done, err = a.emailScreen(ctx)
			otp.Clear()
		case resetflow.AwaitingOtp:
			done, err = a.otpScreen(ctx, &otp)
		case resetflow.AwaitingPassword:
			done, err = a.passwordScreen(ctx)
		case resetflow.Completed:
			return nil
		}
		if err != nil || done {
			return err
		}
	}
}

// emailScreen is step 1. It returns done when the user leaves the flow.
func (a *App) emailScreen(ctx context.Context) (bool, error) {
	line, err := getSimpleText(a.reader, "Forgot password: enter your account email ('cancel' to leave)", a.out)
	if err != nil {
		return true, err
	}
	if strings.EqualFold(line, inputCancel) {
		return true, nil
	}

	out, _ := a.flow.SubmitEmail(ctx, line)
	a.toast(out)
	return false, nil
}

// otpScreen is step 2. Digits accumulate across lines and the code is
// submitted as soon as the sixth digit arrives. An empty line resubmits a
// code the previous attempt kept.
func (a *App) otpScreen(ctx context.Context, otp *resetflow.OTPInput) (bool, error) {
	prompt := fmt.Sprintf("Enter the 6-digit code [%d/%d] ('resend', 'back', 'cancel')", otp.Len(), resetflow.OTPLength)
	line, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return true, err
	}

	var out resetflow.Outcome
	switch strings.ToLower(line) {
	case inputCancel:
		return true, nil
	case inputBack:
		otp.Clear()
		out, _ = a.flow.Back(ctx)
		a.toast(out)
		return false, nil
	case inputResend:
		out, _ = a.flow.ResendOTP(ctx)
		if out.ClearInput {
			otp.Clear()
		}
		a.toast(out)
		return false, nil
	case "":
		if !otp.Complete() {
			return false, nil
		}
	default:
		if otp.Complete() {
			otp.Clear()
		}
		if !otp.Push(line) {
			return false, nil
		}
	}

	out, _ = a.flow.SubmitOTP(ctx, otp.Code())
	if out.ClearInput {
		otp.Clear()
	} else if otp.Complete() && out.State == resetflow.AwaitingOtp {
		out.Message += " (press Enter to resubmit " + otp.Code() + ")"
	}
	a.toast(out)
	return false, nil
}

// passwordScreen is step 3. An empty password goes back to the code step.
func (a *App) passwordScreen(ctx context.Context) (bool, error) {
	password, err := getPassword(a.out, "New password (empty to go back): ")
	if err != nil {
		return true, err
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		out, _ := a.flow.Back(ctx)
		a.toast(out)
		return false, nil
	}

	confirm, err := getPassword(a.out, "Confirm new password: ")
	if err != nil {
		return true, err
	}
	defer common.WipeByteArray(confirm)

	out, _ := a.flow.SubmitPassword(ctx, password, confirm)
	a.toast(out)
	if out.State == resetflow.Completed {
		a.println("Type 'login' to sign in.")
	}
	return false, nil
}

// toast prints a one-line screen message.
func (a *App) toast(out resetflow.Outcome) {
	if out.Retryable {
		a.printf("! %s\n", out.Message)
		return
	}
	a.printf("* %s\n", out.Message)
}
