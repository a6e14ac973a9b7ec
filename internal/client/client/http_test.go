package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend routes the subset of the Deuce API the client calls.
type fakeBackend struct {
	t        *testing.T
	router   *mux.Router
	requests []*http.Request
	bodies   []map[string]any
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{t: t, router: mux.NewRouter()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		fb.requests = append(fb.requests, r)
		fb.bodies = append(fb.bodies, body)
		fb.router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) handle(method, path string, status int, payload any) {
	fb.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}).Methods(method)
}

func apiErr(code, msg string) map[string]any {
	return map[string]any{"error": map[string]string{"code": code, "message": msg}}
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(baseURL, timeout, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := NewHTTPClient("not a url", time.Second, nil)
	require.Error(t, err)
	_, err = NewHTTPClient("http://ok", 0, nil)
	require.Error(t, err)
	c, err := NewHTTPClient("https://api.deuce.test/", time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.deuce.test", c.baseURL.String())
}

func TestSendOTP_PostsEmailWithHeaders(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodPost, pathSendOTP, http.StatusAccepted, nil)
	c := newTestClient(t, srv.URL, time.Second)

	require.NoError(t, c.SendOTP(context.Background(), "alice@example.com"))

	require.Len(t, fb.requests, 1)
	r := fb.requests[0]
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
	_, err := uuid.Parse(r.Header.Get(requestIDHeader))
	assert.NoError(t, err, "request id must be a uuid")
	assert.Equal(t, "alice@example.com", fb.bodies[0]["email"])
}

func TestVerifyAndReset_Bodies(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodPost, pathVerifyOTP, http.StatusOK, map[string]any{"verified": true})
	fb.handle(http.MethodPost, pathReset, http.StatusOK, nil)
	c := newTestClient(t, srv.URL, time.Second)
	ctx := context.Background()

	require.NoError(t, c.VerifyOTP(ctx, "a@b.co", "123456"))
	require.NoError(t, c.ResetPassword(ctx, "a@b.co", "123456", []byte("N3w!passw0rd")))

	assert.Equal(t, "123456", fb.bodies[0]["otp"])
	assert.Equal(t, "a@b.co", fb.bodies[1]["email"])
	assert.Equal(t, "123456", fb.bodies[1]["otp"])
	assert.Equal(t, "N3w!passw0rd", fb.bodies[1]["password"])
}

func TestResetPassword_BodyIntactWhenAnsweredEarly(t *testing.T) {
	got := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		b, _ := io.ReadAll(r.Body)
		got <- b
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL, time.Second)

	password := strings.Repeat("N3w!passw0rd", 2731)
	require.NoError(t, c.ResetPassword(context.Background(), "a@b.co", "123456", []byte(password)))

	select {
	case b := <-got:
		var body resetRequest
		require.NoError(t, json.Unmarshal(b, &body))
		assert.Equal(t, password, body.Password)
		assert.Equal(t, "123456", body.OTP)
	case <-time.After(5 * time.Second):
		t.Fatal("backend never read the body")
	}
}

func TestErrorCodesMapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   error
	}{
		{"expired", http.StatusBadRequest, apiErr(CodeOTPExpired, "expired"), ErrOTPExpired},
		{"used", http.StatusBadRequest, apiErr(CodeOTPUsed, "used"), ErrOTPUsed},
		{"invalid", http.StatusBadRequest, apiErr(CodeOTPInvalid, "nope"), ErrOTPInvalid},
		{"attempts", http.StatusForbidden, apiErr(CodeTooManyAttempts, "slow down"), ErrTooManyAttempts},
		{"rate code", http.StatusBadRequest, apiErr(CodeRateLimited, "later"), ErrRateLimited},
		{"rate status", http.StatusTooManyRequests, nil, ErrRateLimited},
		{"weak", http.StatusUnprocessableEntity, apiErr(CodeWeakPassword, "weak"), ErrWeakPassword},
		{"unauthorized", http.StatusUnauthorized, nil, ErrUnauthorized},
		{"server", http.StatusBadGateway, nil, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, srv := newFakeBackend(t)
			fb.handle(http.MethodPost, pathVerifyOTP, tt.status, tt.body)
			c := newTestClient(t, srv.URL, time.Second)

			err := c.VerifyOTP(context.Background(), "a@b.co", "000000")
			require.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestUnknownCodeIsPlainAPIError(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodPost, pathSendOTP, http.StatusBadRequest, apiErr("SOMETHING_NEW", "hmm"))
	c := newTestClient(t, srv.URL, time.Second)

	err := c.SendOTP(context.Background(), "a@b.co")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "SOMETHING_NEW", apiErr.Code)
	assert.Nil(t, apiErr.Unwrap())
	assert.Contains(t, err.Error(), "hmm")
}

func TestSlowBackend_ResolvesToTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, 50*time.Millisecond)

	start := time.Now()
	err := c.SendOTP(context.Background(), "a@b.co")
	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second, "must not hang")
}

func TestCallerCancellationIsNotTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := c.Ping(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestUnreachableBackend(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c := newTestClient(t, "http://"+addr, time.Second)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestLogin_ReturnsTokens(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodPost, pathLogin, http.StatusOK, map[string]string{"accessToken": "A", "refreshToken": "R"})
	c := newTestClient(t, srv.URL, time.Second)

	tokens, err := c.Login(context.Background(), "a@b.co", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "A", tokens.AccessToken)
	assert.Equal(t, "R", tokens.RefreshToken)
	assert.Equal(t, "pw", fb.bodies[0]["password"])
}

func TestLogin_EmptyToken(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodPost, pathLogin, http.StatusOK, map[string]string{})
	c := newTestClient(t, srv.URL, time.Second)

	_, err := c.Login(context.Background(), "a@b.co", []byte("pw"))
	require.Error(t, err)
}

func TestMeAndHistory_SendBearerAndQuery(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodGet, pathMe, http.StatusOK, map[string]any{"id": "p1", "name": "Alice", "dmr": 4.21})
	fb.handle(http.MethodGet, pathHistory, http.StatusOK, map[string]any{
		"matches":    []map[string]any{{"id": "m1", "winner": 0}},
		"page":       2,
		"totalPages": 3,
	})
	c := newTestClient(t, srv.URL, time.Second)
	ctx := context.Background()

	p, err := c.Me(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.InDelta(t, 4.21, p.DMR, 1e-9)

	page, err := c.MatchHistory(ctx, "tok", 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Matches, 1)
	assert.Equal(t, 3, page.TotalPages)

	assert.Equal(t, "Bearer tok", fb.requests[0].Header.Get("Authorization"))
	assert.Equal(t, "2", fb.requests[1].URL.Query().Get("page"))
	assert.Equal(t, "10", fb.requests[1].URL.Query().Get("limit"))
}

func TestPing(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle(http.MethodGet, pathHealth, http.StatusOK, map[string]string{"status": "ok"})
	c := newTestClient(t, srv.URL, time.Second)

	require.NoError(t, c.Ping(context.Background()))
}

func TestMapStatus_NotFound(t *testing.T) {
	require.ErrorIs(t, mapStatus(http.StatusNotFound, "", "missing"), ErrNotFound)
}
