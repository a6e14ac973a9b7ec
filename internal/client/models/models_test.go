package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetState_Verified(t *testing.T) {
	otp := "123456"
	now := time.Now()

	assert.False(t, ResetState{Email: "a@b.co"}.Verified())
	assert.False(t, ResetState{Email: "a@b.co", OTP: &otp}.Verified())
	assert.True(t, ResetState{Email: "a@b.co", OTP: &otp, VerifiedAt: &now}.Verified())
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{}.Expired(now), "zero expiry never expires")
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.Expired(now))
}
