package client

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client in New. Options run before the API-key
// transport is installed, so any transport they add sits underneath it.
type Option func(*Client) error

// WithHTTPTimeout bounds each HTTP request made by the SDK, including
// reading the response body. Per-call context deadlines still apply.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0, got %s", d)
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying *http.Client. Its transport is
// wrapped, not replaced, by the debug and API-key transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithDebugLogging logs every meal-service request and response at debug
// level. Bodies are dumped, so keep it off outside local development.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if _, installed := c.http.Transport.(*debugTransport); enabled && !installed {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}
