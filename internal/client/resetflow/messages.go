package resetflow

// User-facing copy.
const (
	MsgInvalidEmail     = "Enter a valid email address."
	MsgCodeSent         = "If an account exists for that email, we've sent a 6-digit code."
	MsgCodeResent       = "If an account exists for that email, we've sent a new code."
	MsgInvalidOTPFormat = "Enter the 6-digit code from your email."
	MsgCodeVerified     = "Code verified. Choose a new password."
	MsgOTPExpired       = "That code has expired. Request a new one."
	MsgOTPUsed          = "That code has already been used. Request a new one."
	MsgOTPInvalid       = "That code isn't right. Check it and try again."
	MsgTooManyAttempts  = "Too many attempts. Request a new code."
	MsgRateLimited      = "Too many requests. Wait a moment and try again."
	MsgTimeout          = "The request timed out. Check your connection and try again."
	MsgUnavailable      = "Can't reach Deuce right now. Try again in a moment."
	MsgUnexpected       = "Something went wrong. Please try again."
	MsgWeakPassword     = "Password must be 8 to 128 characters with upper and lower case letters, a digit and a symbol."
	MsgPasswordMismatch = "Passwords don't match."
	MsgResetExpired     = "Your verification expired. Start the reset again."
	MsgCodeRejected     = "Your reset code is no longer valid. Start the reset again."
	MsgResetDone        = "Password updated. Log in with your new password."
	MsgResumedOtp       = "Enter the code we sent to your email."
	MsgResumedPassword  = "Code already verified. Choose a new password."
	MsgStart            = "Enter the email address for your Deuce account."
)
