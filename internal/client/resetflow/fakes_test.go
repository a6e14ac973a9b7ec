package resetflow

import (
	"context"
	"sync"
	"time"

	"github.com/deuceleague/deucecli/internal/client/models"
)

type fakeAPI struct {
	SendErr   error
	ResendErr error
	VerifyErr error
	ResetErr  error

	Calls        []string
	LastEmail    string
	LastOTP      string
	LastPassword string
}

func (f *fakeAPI) SendOTP(ctx context.Context, email string) error {
	f.Calls = append(f.Calls, "send")
	f.LastEmail = email
	return f.SendErr
}

func (f *fakeAPI) ResendOTP(ctx context.Context, email string) error {
	f.Calls = append(f.Calls, "resend")
	f.LastEmail = email
	return f.ResendErr
}

func (f *fakeAPI) VerifyOTP(ctx context.Context, email, otp string) error {
	f.Calls = append(f.Calls, "verify")
	f.LastEmail, f.LastOTP = email, otp
	return f.VerifyErr
}

func (f *fakeAPI) ResetPassword(ctx context.Context, email, otp string, password []byte) error {
	f.Calls = append(f.Calls, "reset")
	f.LastEmail, f.LastOTP, f.LastPassword = email, otp, string(password)
	return f.ResetErr
}

// memStore mirrors the secure store's reset semantics in memory.
type memStore struct {
	mu  sync.Mutex
	st  *models.ResetState
	ttl time.Duration
	now func() time.Time

	ClearCalls int
	ReadErr    error
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{ttl: 10 * time.Minute, now: now}
}

func (m *memStore) SetEmail(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = &models.ResetState{Email: email}
	return nil
}

func (m *memStore) SetVerifiedOtp(ctx context.Context, email, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	at := m.now()
	m.st = &models.ResetState{Email: email, OTP: &otp, VerifiedAt: &at}
	return nil
}

func (m *memStore) fresh() bool {
	return m.st != nil && m.st.Verified() && m.now().Sub(*m.st.VerifiedAt) < m.ttl
}

func (m *memStore) GetVerifiedOtp(ctx context.Context) (*models.VerifiedOTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.fresh() {
		return nil, nil
	}
	return &models.VerifiedOTP{Email: m.st.Email, OTP: *m.st.OTP}, nil
}

func (m *memStore) IsOtpValid(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fresh(), nil
}

func (m *memStore) ResetState(ctx context.Context) (*models.ResetState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.st == nil {
		return nil, nil
	}
	cp := *m.st
	return &cp, nil
}

func (m *memStore) Email(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == nil {
		return "", nil
	}
	return m.st.Email, nil
}

func (m *memStore) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = nil
	m.ClearCalls++
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
