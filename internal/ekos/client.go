package ekos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

// Notifier receives user-facing messages from the client, e.g. when the
// session is terminated by a login on another device.
type Notifier interface {
	Notify(message string)
}

// Navigator is invoked when the client drops its credentials and the UI
// should return to the login screen.
type Navigator interface {
	RedirectToLogin()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }

// Options configures a Client.
type Options struct {
	BaseURL        string
	RequestTimeout time.Duration
	ExportTimeout  time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	Sessions       SessionStore
	Notifier       Notifier
	Navigator      Navigator
	Logger         *zap.Logger
	HTTPClient     *http.Client
}

// Client talks to the EKOS API. Reads get a bounded retry; mutating verbs
// are issued exactly once.
type Client struct {
	baseURL        string
	http           *http.Client
	requestTimeout time.Duration
	exportTimeout  time.Duration
	retryAttempts  int
	retryDelay     time.Duration
	sessions       SessionStore
	notifier       Notifier
	navigator      Navigator
	logger         *zap.Logger
}

// NewClient constructs a client from options, filling defaults.
func NewClient(opts Options) *Client {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if opts.ExportTimeout <= 0 {
		opts.ExportTimeout = 2 * time.Minute
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.RetryAttempts < 0 {
		opts.RetryAttempts = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Sessions == nil {
		opts.Sessions = &MemorySessionStore{}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           opts.HTTPClient,
		requestTimeout: opts.RequestTimeout,
		exportTimeout:  opts.ExportTimeout,
		retryAttempts:  opts.RetryAttempts,
		retryDelay:     opts.RetryDelay,
		sessions:       opts.Sessions,
		notifier:       opts.Notifier,
		navigator:      opts.Navigator,
		logger:         opts.Logger,
	}
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// doJSON performs a request and decodes the envelope data into out. GET
// requests are retried with a fixed delay on network errors and 5xx
// responses; everything else runs exactly once.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retryAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
			c.logger.Debug("retrying request", zap.String("path", path), zap.Int("attempt", attempt+1))
		}

		resp, err := c.send(ctx, method, path, query, payload, c.requestTimeout)
		if err != nil {
			lastErr = err
			continue
		}

		retryable, err := c.handleJSON(resp, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	var apiErr *appErrors.Error
	if errors.As(lastErr, &apiErr) {
		return apiErr
	}
	return appErrors.Wrap(lastErr, "NETWORK_ERROR", http.StatusServiceUnavailable, "sunucuya ulaşılamıyor")
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, timeout time.Duration) (*http.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(reqCtx, method, u, body)
	if err != nil {
		cancel()
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session, _ := c.sessions.Load(); session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	// cancel runs when the response body is drained.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// handleJSON consumes the response. The bool result reports whether the
// failure is worth retrying.
func (c *Client) handleJSON(resp *http.Response, out interface{}) (bool, error) {
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, err
	}

	if resp.StatusCode >= 500 {
		return true, c.decodeError(resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		apiErr := c.decodeError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(apiErr)
		}
		return false, apiErr
	}

	if out == nil || len(raw) == 0 {
		return false, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode response")
	}
	if len(env.Data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode response data")
	}
	return false, nil
}

func (c *Client) decodeError(status int, raw []byte) *appErrors.Error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return env.Error
	}
	switch {
	case status == http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	case status == http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, "bu işlem için yetkiniz yok")
	case status >= 500:
		return appErrors.Clone(appErrors.ErrInternal, "sunucu hatası")
	default:
		return appErrors.New("HTTP_ERROR", status, fmt.Sprintf("unexpected status %d", status))
	}
}

// handleUnauthorized clears credentials and routes the user back to login
// with a cause-specific message. The failed call is never retried.
func (c *Client) handleUnauthorized(apiErr *appErrors.Error) {
	if err := c.sessions.Clear(); err != nil {
		c.logger.Warn("failed to clear session", zap.Error(err))
	}

	if c.notifier != nil {
		switch apiErr.Code {
		case appErrors.ErrSessionSuperseded.Code:
			c.notifier.Notify("Oturumunuz başka bir cihazdan giriş yapıldığı için sonlandırıldı.")
		case appErrors.ErrTokenExpired.Code:
			c.notifier.Notify("Oturum süreniz doldu, lütfen tekrar giriş yapın.")
		default:
			c.notifier.Notify("Oturum doğrulanamadı, lütfen tekrar giriş yapın.")
		}
	}
	if c.navigator != nil {
		c.navigator.RedirectToLogin()
	}
}
