package services

import (
	"context"
	"sync"

	"github.com/deuceleague/deucecli/internal/client/models"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	LoginRet *models.Tokens
	LoginErr error

	MeRet *models.Profile
	MeErr error

	HistoryRet *models.MatchPage
	HistoryErr error

	PingErr  error
	CloseErr error

	LastToken     string
	LastPage      int
	LastLimit     int
	LastLoginUser string
	LastLoginPass []byte
	Closed        bool
}

func (f *fakeClient) SendOTP(ctx context.Context, email string) error   { return nil }
func (f *fakeClient) ResendOTP(ctx context.Context, email string) error { return nil }
func (f *fakeClient) VerifyOTP(ctx context.Context, email, otp string) error {
	return nil
}
func (f *fakeClient) ResetPassword(ctx context.Context, email, otp string, password []byte) error {
	return nil
}

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*models.Tokens, error) {
	f.LastLoginUser = email
	f.LastLoginPass = append([]byte(nil), password...)
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.Profile, error) {
	f.LastToken = token
	return f.MeRet, f.MeErr
}

func (f *fakeClient) MatchHistory(ctx context.Context, token string, page, limit int) (*models.MatchPage, error) {
	f.LastToken, f.LastPage, f.LastLimit = token, page, limit
	return f.HistoryRet, f.HistoryErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Close() error {
	f.Closed = true
	return f.CloseErr
}

type memSessionStore struct {
	mu   sync.Mutex
	sess *models.Session
	err  error
}

func (m *memSessionStore) SaveSession(ctx context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &s
	return nil
}

func (m *memSessionStore) Session(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.sess == nil {
		return nil, nil
	}
	cp := *m.sess
	return &cp, nil
}

func (m *memSessionStore) ClearSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	m.err = nil
	return nil
}
