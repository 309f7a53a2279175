package bazaar

import (
	"net/http"

	"github.com/vitwit/x402-bazaar/logger"
	"github.com/vitwit/x402-bazaar/metrics"
	"github.com/vitwit/x402-bazaar/payment"
)

type Option func(*Client)

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.rec = r
	}
}

// WithHTTPClient replaces the underlying HTTP client (and its timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithPaymentHandler injects a pre-built payment handler. Takes precedence
// over the PrivateKey-based handler construction in New.
func WithPaymentHandler(h *payment.Handler) Option {
	return func(c *Client) {
		c.payment = h
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}
