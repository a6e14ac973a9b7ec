package resetflow

import "errors"

type State int

const (
	AwaitingEmail State = iota
	AwaitingOtp
	AwaitingPassword
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingEmail:
		return "awaiting_email"
	case AwaitingOtp:
		return "awaiting_otp"
	case AwaitingPassword:
		return "awaiting_password"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	ErrWrongState       = errors.New("operation not allowed in current state")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidOTP       = errors.New("code must be 6 digits")
	ErrWeakPassword     = errors.New("password does not meet policy")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrResetExpired     = errors.New("verified code expired")
)

// Outcome is what a screen shows after an operation. Message is always set.
type Outcome struct {
	State   State
	Message string
	// ClearInput asks the OTP screen to empty its digits.
	ClearInput bool
	// Retryable means the same submission may succeed if repeated.
	Retryable bool
}
