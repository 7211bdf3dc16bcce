// Package finance is the HTTP client for the remote finance API: reference
// data, transaction submission and the bulk import preview.
package finance

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

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 10 * time.Second

	headerIdempotencyKey = "Idempotency-Key"
)

// Config is the connection configuration. It is copied into the Client at
// construction and never changed afterwards.
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64
}

type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("server base url is not configured")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server base url %q: scheme must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  log.New(io.Discard),
	}
	WithRateLimit(cfg.RateLimit)(c)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	op      string
	method  string
	path    string
	body    io.Reader
	ctype   string
	headers map[string]string
}

func (c *Client) jsonRequest(op, method, path string, payload any) (request, error) {
	req := request{op: op, method: method, path: path}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return request{}, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		req.body = bytes.NewReader(raw)
		req.ctype = "application/json"
	}
	return req, nil
}

// do sends r and decodes a successful JSON response into out (when out is
// not nil). Failures are returned as *Error, except context cancellation
// which is returned as is.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	endpoint := c.baseURL.String() + r.path
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, r.body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", r.op, err)
	}

	req.Header.Set("Accept", "application/json")
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug("request failed", "op", r.op, "method", r.method, "path", r.path, "err", err)
		return &Error{Kind: KindNetwork, Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request done", "op", r.op, "method", r.method, "path", r.path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(r.op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &Error{Kind: KindNetwork, Op: r.op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	msg := body.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Op:      op,
		Status:  resp.StatusCode,
		Field:   body.Field,
		Message: msg,
	}
}
