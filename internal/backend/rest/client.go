// Package rest implements service.Service against the task service's JSON
// API.
package rest

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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"todocli/internal/apierr"
	"todocli/internal/config"
	"todocli/internal/logging"
	"todocli/internal/service"
)

const (
	// RequestIDHeader carries a per-call UUID for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 1 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	anon    *http.Client
	authed  *http.Client
	log     *zap.Logger
}

var _ service.Service = (*Client)(nil)

type options struct {
	transport http.RoundTripper
	metrics   *Metrics
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*options)

// WithTransport sets the base transport (for testing).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithMetrics instruments every request.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New creates a client for cfg.APIURL. Authenticated calls take their
// credential from src at the moment each request is sent.
func New(cfg *config.Config, src oauth2.TokenSource, opts ...Option) *Client {
	o := options{transport: http.DefaultTransport}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = logging.Named("rest")
	}

	base := o.transport
	if o.metrics != nil {
		base = o.metrics.instrument(base)
	}

	return &Client{
		baseURL: cfg.APIURL,
		timeout: cfg.APITimeout(),
		anon:    &http.Client{Transport: base},
		authed:  &http.Client{Transport: &oauth2.Transport{Source: src, Base: base}},
		log:     o.log,
	}
}

// Register implements service.AuthService.
func (c *Client) Register(ctx context.Context, r service.Registration) (string, error) {
	var out messageJSON
	err := c.do(ctx, c.anon, http.MethodPost, "/users/register", r, &out)
	return out.Message, err
}

// VerifyRegistration implements service.AuthService.
func (c *Client) VerifyRegistration(ctx context.Context, email, otp string) (string, error) {
	var out messageJSON
	err := c.do(ctx, c.anon, http.MethodPost, "/users/verify-otp", otpJSON{Email: email, OTP: otp}, &out)
	return out.Message, err
}

// ResendOTP implements service.AuthService.
func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	var out messageJSON
	err := c.do(ctx, c.anon, http.MethodPost, "/users/resend-otp", emailJSON{Email: email}, &out)
	return out.Message, err
}

// RequestLoginOTP implements service.AuthService.
func (c *Client) RequestLoginOTP(ctx context.Context, emailOrNumber, password string) (string, error) {
	var out messageJSON
	body := loginJSON{EmailOrNumber: emailOrNumber, Password: password}
	err := c.do(ctx, c.anon, http.MethodPost, "/users/login-otp", body, &out)
	return out.Message, err
}

// VerifyLoginOTP implements service.AuthService.
func (c *Client) VerifyLoginOTP(ctx context.Context, email, otp string) (string, error) {
	var out tokenJSON
	if err := c.do(ctx, c.anon, http.MethodPost, "/users/login-verify-otp", otpJSON{Email: email, OTP: otp}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", apierr.Transport(errors.New("response carries no token"))
	}
	return out.Token, nil
}

// ListTasks implements service.TaskService.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var out []taskJSON
	if err := c.do(ctx, c.authed, http.MethodGet, "/tasks/all", nil, &out); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, 0, len(out))
	for _, t := range out {
		tasks = append(tasks, t.task())
	}
	return tasks, nil
}

// CreateTask implements service.TaskService.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var out taskJSON
	if err := c.do(ctx, c.authed, http.MethodPost, "/tasks/create", in, &out); err != nil {
		return service.Task{}, err
	}
	return out.task(), nil
}

// UpdateTask implements service.TaskService.
func (c *Client) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	var out taskJSON
	if err := c.do(ctx, c.authed, http.MethodPut, taskPath(id), in, &out); err != nil {
		return service.Task{}, err
	}
	return out.task(), nil
}

// DeleteTask implements service.TaskService.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, c.authed, http.MethodDelete, taskPath(id), nil, nil)
}

// GetProfile implements service.ProfileService.
func (c *Client) GetProfile(ctx context.Context, email string) (service.Profile, error) {
	var out service.Profile
	err := c.do(ctx, c.authed, http.MethodGet, userPath(email), nil, &out)
	return out, err
}

// UpdateProfile implements service.ProfileService.
func (c *Client) UpdateProfile(ctx context.Context, email string, in service.ProfileInput) (service.Profile, error) {
	var out service.Profile
	err := c.do(ctx, c.authed, http.MethodPut, userPath(email), in, &out)
	return out, err
}

// DeleteProfile implements service.ProfileService. The server answers with
// plain text, so the body is ignored.
func (c *Client) DeleteProfile(ctx context.Context, email string) error {
	return c.do(ctx, c.authed, http.MethodDelete, userPath(email), nil, nil)
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func userPath(email string) string {
	return "/users/" + url.PathEscape(email)
}

// do sends one request and decodes a 2xx body into out (if non-nil).
// Every failure comes back as an *apierr.Error.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apierr.Transport(fmt.Errorf("encode request: %w", err))
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return apierr.Transport(err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(logging.Method(method), logging.Path(path), logging.RequestID(reqID))
	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		werr := wrapError(ctx, err)
		log.Debug("request failed", logging.Duration(time.Since(start)), logging.Err(err))
		return werr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Debug("read body failed", logging.Status(resp.StatusCode), logging.Err(err))
		return apierr.Transport(fmt.Errorf("read response: %w", err))
	}
	log.Debug("request done", logging.Status(resp.StatusCode), logging.Duration(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data, hc == c.authed)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierr.Transport(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// wrapError maps a failed round trip into the taxonomy.
func wrapError(ctx context.Context, err error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierr.Transport(fmt.Errorf("request timed out: %w", err))
	}
	return apierr.Transport(err)
}

// statusError maps a non-2xx response. On authenticated calls 401 and 403
// mean the server rejected the credential; on the login endpoints they are
// ordinary server messages such as a wrong password.
func statusError(status int, body []byte, authed bool) error {
	msg := errorMessage(body)
	if authed && (status == http.StatusUnauthorized || status == http.StatusForbidden) {
		return &apierr.Error{
			Kind:    apierr.KindAuth,
			Status:  status,
			Message: msg,
			Err:     fmt.Errorf("server rejected credential (HTTP %d)", status),
		}
	}
	return apierr.Remote(status, msg)
}
