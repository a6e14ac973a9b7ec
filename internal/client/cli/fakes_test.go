package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/deuceleague/deucecli/internal/client/models"
	"github.com/deuceleague/deucecli/internal/client/resetflow"
	"github.com/deuceleague/deucecli/internal/client/store"
	"github.com/deuceleague/deucecli/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	SendErr   error
	ResendErr error
	VerifyErr []error
	ResetErr  error

	Calls    []string
	Verified []string
	Password string
}

func (f *fakeAPI) SendOTP(ctx context.Context, email string) error {
	f.Calls = append(f.Calls, "send")
	return f.SendErr
}

func (f *fakeAPI) ResendOTP(ctx context.Context, email string) error {
	f.Calls = append(f.Calls, "resend")
	return f.ResendErr
}

// VerifyOTP pops errors from VerifyErr; an empty queue accepts the code.
func (f *fakeAPI) VerifyOTP(ctx context.Context, email, otp string) error {
	f.Calls = append(f.Calls, "verify")
	f.Verified = append(f.Verified, otp)
	if len(f.VerifyErr) == 0 {
		return nil
	}
	err := f.VerifyErr[0]
	f.VerifyErr = f.VerifyErr[1:]
	return err
}

func (f *fakeAPI) ResetPassword(ctx context.Context, email, otp string, password []byte) error {
	f.Calls = append(f.Calls, "reset")
	f.Password = string(password)
	return f.ResetErr
}

// stubPasswords feeds getPassword from a queue.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(pws) == 0 {
			return nil, io.EOF
		}
		pw := []byte(pws[0])
		pws = pws[1:]
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func newResetApp(t *testing.T, api *fakeAPI, input string) (*App, *store.Store, *bytes.Buffer) {
	t.Helper()
	st, err := store.Open(context.Background(), t.TempDir(), 10*time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var out bytes.Buffer
	app := &App{
		logger: logging.Nop(),
		flow:   resetflow.New(api, st, resetflow.Options{}),
		reader: rdr(input),
		out:    &out,
	}
	return app, st, &out
}

type fakeAuth struct {
	LoginRet *models.Session
	LoginErr error

	SessionRet *models.Session
	SessionErr error

	MeRet *models.Profile
	MeErr error

	PingErr error

	LastEmail    string
	LastPassword []byte
	LoggedOut    bool
	Closed       bool
}

func (f *fakeAuth) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	f.LastEmail = email
	f.LastPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.LoggedOut = true
	return nil
}

func (f *fakeAuth) CurrentSession(ctx context.Context) (*models.Session, error) {
	return f.SessionRet, f.SessionErr
}

func (f *fakeAuth) Me(ctx context.Context) (*models.Profile, error) { return f.MeRet, f.MeErr }
func (f *fakeAuth) Ping(ctx context.Context) error                   { return f.PingErr }
func (f *fakeAuth) Close(ctx context.Context) error {
	f.Closed = true
	return nil
}

type fakeHistory struct {
	Ret     *models.HistoryPage
	Err     error
	GotPage int
}

func (f *fakeHistory) Page(ctx context.Context, page int) (*models.HistoryPage, error) {
	f.GotPage = page
	return f.Ret, f.Err
}
