package models

import "time"

// ResetState is the in-progress password reset kept on the device.
// OTP and VerifiedAt are set only after the backend accepted the code.
type ResetState struct {
	Email      string     `json:"email"`
	OTP        *string    `json:"otp,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// Verified reports whether the state carries a verified code.
func (s ResetState) Verified() bool {
	return s.OTP != nil && s.VerifiedAt != nil
}

// VerifiedOTP is what the final reset step needs from the store.
type VerifiedOTP struct {
	Email string
	OTP   string
}
