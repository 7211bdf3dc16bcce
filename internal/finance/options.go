package finance

import (
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The configured timeout
// is not applied to a client passed this way.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit throttles outgoing requests to perSecond. Zero or a negative
// value disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}
