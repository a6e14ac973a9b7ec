package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deuceleague/deucecli/internal/client/models"
	"github.com/deuceleague/deucecli/internal/logging"
	"github.com/deuceleague/deucecli/internal/netx"
	"github.com/google/uuid"
)

const (
	pathSendOTP     = "/api/auth/password/otp"
	pathResendOTP   = "/api/auth/password/otp/resend"
	pathVerifyOTP   = "/api/auth/password/otp/verify"
	pathReset       = "/api/auth/password/reset"
	pathLogin       = "/api/auth/login"
	pathMe          = "/api/player/me"
	pathHistory     = "/api/match/history"
	pathHealth      = "/api/health"
	requestIDHeader = "X-Request-ID"
	userAgent       = "deucecli/1"
	maxBodyBytes    = 1 << 20
)

// HTTPClient talks JSON to the Deuce REST backend. Every call is bounded by
// the configured timeout; no call is retried.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewHTTPClient validates baseURL and returns a ready client.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		timeout: timeout,
		logger:  logger,
	}, nil
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, pathSendOTP, nil, "", emailRequest{Email: email}, nil)
}

func (c *HTTPClient) ResendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, pathResendOTP, nil, "", emailRequest{Email: email}, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, http.MethodPost, pathVerifyOTP, nil, "", verifyRequest{Email: email, OTP: otp}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, otp string, password []byte) error {
	req := resetRequest{Email: email, OTP: otp, Password: string(password)}
	return c.do(ctx, http.MethodPost, pathReset, nil, "", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.Tokens, error) {
	var tokens models.Tokens
	req := loginRequest{Email: email, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, pathLogin, nil, "", req, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("login: empty access token")
	}
	return &tokens, nil
}

func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, pathMe, nil, accessToken, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) MatchHistory(ctx context.Context, accessToken string, page, limit int) (*models.MatchPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var p models.MatchPage
	if err := c.do(ctx, http.MethodGet, pathHistory, q, accessToken, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathHealth, nil, "", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do is the single request path: it applies the timeout, tags the request,
// and maps transport and backend failures to sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = b
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}

	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		mapped := c.transportError(ctx, err)
		log.Warn(ctx, "request failed", "error", err, "elapsed", time.Since(start))
		return mapped
	}
	defer netx.DrainAndClose(resp.Body)

	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if netx.IsTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: reading %s", ErrTimeout, path)
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// transportError distinguishes our own deadline from caller cancellation
// and from an unreachable backend.
func (c *HTTPClient) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || netx.IsTimeout(err) {
		return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if netx.IsUnreachable(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: transport: %v", ErrUnavailable, err)
}

func decodeError(resp *http.Response) error {
	var env errorEnvelope
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err := json.Unmarshal(b, &env); err != nil || (env.Error.Code == "" && env.Error.Message == "") {
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return mapStatus(resp.StatusCode, "", msg)
	}
	return mapStatus(resp.StatusCode, env.Error.Code, env.Error.Message)
}
