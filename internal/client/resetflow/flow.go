package resetflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deuceleague/deucecli/internal/client/client"
	"github.com/deuceleague/deucecli/internal/client/models"
	"github.com/deuceleague/deucecli/internal/common"
	"github.com/deuceleague/deucecli/internal/logging"
	"github.com/deuceleague/deucecli/internal/timex"
)

// API is the part of the backend the reset needs.
type API interface {
	SendOTP(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp string, password []byte) error
}

// Store persists reset progress between steps and runs.
type Store interface {
	SetEmail(ctx context.Context, email string) error
	SetVerifiedOtp(ctx context.Context, email, otp string) error
	GetVerifiedOtp(ctx context.Context) (*models.VerifiedOTP, error)
	IsOtpValid(ctx context.Context) (bool, error)
	ResetState(ctx context.Context) (*models.ResetState, error)
	Email(ctx context.Context) (string, error)
	ClearAll(ctx context.Context) error
}

type Options struct {
	// SettleDelay is waited after a verified code is persisted.
	SettleDelay time.Duration
	// HydrationDelay is waited before reading the store on Resume.
	HydrationDelay time.Duration
	Logger         logging.Logger
}

// Flow is one user's password reset. It is safe for concurrent use, though
// operations are serialized.
type Flow struct {
	mu     sync.Mutex
	api    API
	store  Store
	opts   Options
	logger logging.Logger
	state  State
}

func New(api API, store Store, opts Options) *Flow {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Flow{
		api:    api,
		store:  store,
		opts:   opts,
		logger: logger.With("component", "resetflow"),
		state:  AwaitingEmail,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) outcome(msg string) Outcome {
	return Outcome{State: f.state, Message: msg}
}

func (f *Flow) expect(s State) error {
	if f.state != s {
		return fmt.Errorf("%w: in %s, want %s", ErrWrongState, f.state, s)
	}
	return nil
}

// restart clears persisted progress and returns to the email step.
func (f *Flow) restart(ctx context.Context) error {
	f.state = AwaitingEmail
	if err := f.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear reset state: %w", err)
	}
	return nil
}

// Resume rebuilds the state from the store. A verified code past its TTL,
// or unreadable stored state, is discarded.
func (f *Flow) Resume(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := timex.Sleep(ctx, f.opts.HydrationDelay); err != nil {
		return f.outcome(MsgStart), err
	}

	st, err := f.store.ResetState(ctx)
	if errors.Is(err, common.ErrorCorrupt) {
		f.logger.Warn(ctx, "discarding unreadable reset state", "error", err)
		if err := f.restart(ctx); err != nil {
			return f.outcome(MsgUnexpected), err
		}
		return f.outcome(MsgStart), nil
	}
	if err != nil {
		return f.outcome(MsgUnexpected), err
	}

	switch {
	case st == nil:
		f.state = AwaitingEmail
		return f.outcome(MsgStart), nil

	case st.Verified():
		ok, err := f.store.IsOtpValid(ctx)
		if err != nil {
			return f.outcome(MsgUnexpected), err
		}
		if !ok {
			f.logger.Info(ctx, "verified code expired before resume", "email", common.MaskEmail(st.Email))
			if err := f.restart(ctx); err != nil {
				return f.outcome(MsgUnexpected), err
			}
			return f.outcome(MsgResetExpired), nil
		}
		f.state = AwaitingPassword
		return f.outcome(MsgResumedPassword), nil

	default:
		f.state = AwaitingOtp
		return f.outcome(MsgResumedOtp), nil
	}
}

// SubmitEmail is step 1. Any backend answer produces MsgCodeSent and
// advances; a transport failure keeps the flow here and is retryable.
func (f *Flow) SubmitEmail(ctx context.Context, email string) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(AwaitingEmail); err != nil {
		return f.outcome(MsgUnexpected), err
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return f.outcome(MsgInvalidEmail), err
	}

	log := f.logger.With("email", common.MaskEmail(email))

	if err := f.api.SendOTP(ctx, email); err != nil {
		if out, ok := f.transportFailure(err); ok {
			log.Warn(ctx, "send otp failed", "error", err)
			return out, err
		}
		// The answer must not reveal whether the account exists.
		log.Info(ctx, "send otp rejected, continuing", "error", err)
	}

	if err := f.store.SetEmail(ctx, email); err != nil {
		return f.outcome(MsgUnexpected), fmt.Errorf("store email: %w", err)
	}

	f.state = AwaitingOtp
	log.Debug(ctx, "awaiting otp")
	return f.outcome(MsgCodeSent), nil
}

// ResendOTP asks for a new code for the stored email, under the same
// disclosure rules as SubmitEmail.
func (f *Flow) ResendOTP(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(AwaitingOtp); err != nil {
		return f.outcome(MsgUnexpected), err
	}

	email, err := f.currentEmail(ctx)
	if err != nil {
		return f.emailLost(err)
	}

	log := f.logger.With("email", common.MaskEmail(email))

	if err := f.api.ResendOTP(ctx, email); err != nil {
		if out, ok := f.transportFailure(err); ok {
			log.Warn(ctx, "resend otp failed", "error", err)
			return out, err
		}
		log.Info(ctx, "resend otp rejected, continuing", "error", err)
	}

	out := f.outcome(MsgCodeResent)
	out.ClearInput = true
	return out, nil
}

// SubmitOTP is step 2. The backend is authoritative; its verdict is mapped
// to a message and to whether the typed digits should be cleared.
func (f *Flow) SubmitOTP(ctx context.Context, code string) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(AwaitingOtp); err != nil {
		return f.outcome(MsgUnexpected), err
	}
	if err := ValidateOTP(code); err != nil {
		return f.outcome(MsgInvalidOTPFormat), err
	}

	email, err := f.currentEmail(ctx)
	if err != nil {
		return f.emailLost(err)
	}

	log := f.logger.With("email", common.MaskEmail(email))

	if err := f.api.VerifyOTP(ctx, email, code); err != nil {
		log.Info(ctx, "otp rejected", "error", err)
		return f.otpFailure(err), err
	}

	if err := f.store.SetVerifiedOtp(ctx, email, code); err != nil {
		return f.outcome(MsgUnexpected), fmt.Errorf("store verified otp: %w", err)
	}

	if err := timex.Sleep(ctx, f.opts.SettleDelay); err != nil {
		return f.outcome(MsgUnexpected), err
	}

	f.state = AwaitingPassword
	log.Info(ctx, "otp verified")
	return f.outcome(MsgCodeVerified), nil
}

func (f *Flow) otpFailure(err error) Outcome {
	if out, ok := f.transportFailure(err); ok {
		return out
	}

	out := f.outcome(MsgUnexpected)
	switch {
	case errors.Is(err, client.ErrOTPExpired):
		out.Message, out.ClearInput = MsgOTPExpired, true
	case errors.Is(err, client.ErrOTPUsed):
		out.Message, out.ClearInput = MsgOTPUsed, true
	case errors.Is(err, client.ErrTooManyAttempts):
		out.Message, out.ClearInput = MsgTooManyAttempts, true
	case errors.Is(err, client.ErrOTPInvalid):
		out.Message = MsgOTPInvalid
	case errors.Is(err, client.ErrRateLimited):
		out.Message, out.Retryable = MsgRateLimited, true
	}
	return out
}

// SubmitPassword is step 3. It refuses to call the backend once the
// verified code has aged out, and restarts the flow in that case.
func (f *Flow) SubmitPassword(ctx context.Context, password, confirm []byte) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(AwaitingPassword); err != nil {
		return f.outcome(MsgUnexpected), err
	}

	ok, err := f.store.IsOtpValid(ctx)
	if err != nil && !errors.Is(err, common.ErrorCorrupt) {
		return f.outcome(MsgUnexpected), err
	}
	if !ok {
		if err := f.restart(ctx); err != nil {
			return f.outcome(MsgUnexpected), err
		}
		f.logger.Info(ctx, "verified code expired, restarting")
		return f.outcome(MsgResetExpired), ErrResetExpired
	}

	if err := ValidatePassword(password, confirm); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return f.outcome(MsgPasswordMismatch), err
		}
		return f.outcome(MsgWeakPassword), err
	}

	v, err := f.store.GetVerifiedOtp(ctx)
	if err != nil {
		return f.outcome(MsgUnexpected), err
	}
	if v == nil {
		if err := f.restart(ctx); err != nil {
			return f.outcome(MsgUnexpected), err
		}
		return f.outcome(MsgResetExpired), ErrResetExpired
	}

	log := f.logger.With("email", common.MaskEmail(v.Email))

	if err := f.api.ResetPassword(ctx, v.Email, v.OTP, password); err != nil {
		log.Warn(ctx, "password reset rejected", "error", err)
		return f.resetFailure(ctx, err)
	}

	if err := f.store.ClearAll(ctx); err != nil {
		return f.outcome(MsgUnexpected), fmt.Errorf("clear reset state: %w", err)
	}

	f.state = Completed
	log.Info(ctx, "password reset completed")
	return f.outcome(MsgResetDone), nil
}

func (f *Flow) resetFailure(ctx context.Context, err error) (Outcome, error) {
	if out, ok := f.transportFailure(err); ok {
		return out, err
	}

	switch {
	case errors.Is(err, client.ErrOTPExpired),
		errors.Is(err, client.ErrOTPInvalid),
		errors.Is(err, client.ErrOTPUsed):
		if cerr := f.restart(ctx); cerr != nil {
			return f.outcome(MsgUnexpected), errors.Join(err, cerr)
		}
		return f.outcome(MsgCodeRejected), err
	case errors.Is(err, client.ErrWeakPassword):
		return f.outcome(MsgWeakPassword), err
	case errors.Is(err, client.ErrRateLimited):
		out := f.outcome(MsgRateLimited)
		out.Retryable = true
		return out, err
	default:
		return f.outcome(MsgUnexpected), err
	}
}

// Back steps one screen backwards. Leaving the password step drops the
// verified code; leaving the code step abandons the reset.
func (f *Flow) Back(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case AwaitingPassword:
		email, err := f.currentEmail(ctx)
		if err != nil {
			return f.emailLost(err)
		}
		if err := f.store.SetEmail(ctx, email); err != nil {
			return f.outcome(MsgUnexpected), err
		}
		f.state = AwaitingOtp
		return f.outcome(MsgResumedOtp), nil

	case AwaitingOtp:
		if err := f.restart(ctx); err != nil {
			return f.outcome(MsgUnexpected), err
		}
		return f.outcome(MsgStart), nil

	default:
		return f.outcome(MsgUnexpected), fmt.Errorf("%w: cannot go back from %s", ErrWrongState, f.state)
	}
}

// currentEmail reads the stored email. When it is gone the flow restarts.
func (f *Flow) currentEmail(ctx context.Context) (string, error) {
	email, err := f.store.Email(ctx)
	if err != nil && !errors.Is(err, common.ErrorCorrupt) {
		return "", err
	}
	if email == "" {
		if err := f.restart(ctx); err != nil {
			return "", err
		}
		return "", ErrResetExpired
	}
	return email, nil
}

func (f *Flow) emailLost(err error) (Outcome, error) {
	if errors.Is(err, ErrResetExpired) {
		return f.outcome(MsgResetExpired), err
	}
	return f.outcome(MsgUnexpected), err
}

// transportFailure maps errors that never reached a backend verdict.
func (f *Flow) transportFailure(err error) (Outcome, bool) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return Outcome{}, false
	}

	out := f.outcome(MsgUnexpected)
	out.Retryable = true
	switch {
	case errors.Is(err, client.ErrTimeout):
		out.Message = MsgTimeout
	case errors.Is(err, client.ErrUnavailable):
		out.Message = MsgUnavailable
	case errors.Is(err, context.Canceled):
		out.Message = MsgUnexpected
	default:
		return Outcome{}, false
	}
	return out, true
}
