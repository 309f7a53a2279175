// Package bazaar provides a client for the x402 Bazaar API marketplace with
// automatic handling of HTTP 402 payment-required responses: the payment
// instruction is extracted from the 402 body, USDC is sent on-chain, and the
// original request is retried once with the transaction hash attached.
package bazaar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vitwit/x402-bazaar/clients"
	"github.com/vitwit/x402-bazaar/logger"
	"github.com/vitwit/x402-bazaar/metrics"
	"github.com/vitwit/x402-bazaar/payment"
	"github.com/vitwit/x402-bazaar/types"
)

const (
	// DefaultBaseURL is the hosted x402 Bazaar API.
	DefaultBaseURL = "https://x402-api.onrender.com"

	// DefaultTimeout applies to each marketplace HTTP request.
	DefaultTimeout = 30 * time.Second

	// Version of this library, sent in the User-Agent header.
	Version = "1.0.0"
)

// Headers carrying payment proof on the 402 retry.
const (
	HeaderPaymentTxHash = "X-Payment-TxHash"
	HeaderPaymentChain  = "X-Payment-Chain"
)

// Client calls x402 Bazaar endpoints. Paid endpoints answer with HTTP 402;
// when a payment handler is configured the client pays and retries once.
// Errors other than the single 402 cycle surface immediately.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	payment   *payment.Handler
	log       logger.Logger
	rec       metrics.Recorder
}

// New creates a client from cfg. With an empty PrivateKey the client is
// wallet-less: free endpoints work, a 402 response fails with NO_WALLET.
func New(cfg *types.ClientConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = &types.ClientConfig{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "x402-bazaar/" + Version,
		http:      &http.Client{Timeout: timeout},
		log:       logger.NoopLogger{},
		rec:       metrics.NoopRecorder{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.payment == nil && cfg.PrivateKey != "" {
		network := cfg.Network
		if network == "" {
			network = types.NetworkBase
		}

		evm, err := clients.NewEVMClient(network, cfg.PrivateKey, cfg.RPCUrl)
		if err != nil {
			return nil, err
		}

		c.payment = payment.NewHandler(
			evm,
			cfg.MaxBudgetUSDC,
			payment.WithLogger(c.log),
			payment.WithMetrics(c.rec),
		)
	}

	return c, nil
}

// NewWithDefaults creates a wallet-less client against the hosted marketplace.
func NewWithDefaults() *Client {
	c, _ := New(&types.ClientConfig{})
	return c
}

// PaymentHandler returns the configured payment handler, nil for wallet-less clients.
func (c *Client) PaymentHandler() *payment.Handler {
	return c.payment
}

// Close releases the payment handler's chain connection, if any.
func (c *Client) Close() {
	if c.payment != nil {
		c.payment.Close()
	}
}

// Get issues a GET request with query parameters, paying a 402 if needed.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST request with a JSON body, paying a 402 if needed.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, path, nil, body)
}

// request runs one marketplace call with the x402 flow: at most one payment
// and one retry per call, a second 402 surfaces as an API error.
func (c *Client) request(ctx context.Context, method, path string, params map[string]string, body any) (json.RawMessage, error) {
	start := time.Now()
	defer func() {
		c.rec.ObserveLatency("request", time.Since(start), map[string]string{"network": "marketplace"})
	}()

	status, respBody, err := c.do(ctx, method, path, params, body, nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusPaymentRequired {
		if c.payment == nil {
			return nil, &types.BazaarError{
				Code: types.ErrNoWallet,
				Message: "endpoint requires payment (HTTP 402) but no private key was configured; " +
					"set PrivateKey to enable automatic payments",
			}
		}

		instruction, err := types.ParsePaymentInstruction(respBody)
		if err != nil {
			return nil, err
		}

		c.log.Info("received 402, paying", map[string]any{
			"endpoint":  path,
			"amount":    instruction.Amount.String(),
			"recipient": shortAddr(instruction.Recipient),
		})

		txHash, err := c.payment.Pay(ctx, instruction)
		if err != nil {
			return nil, err
		}

		proof := http.Header{}
		proof.Set(HeaderPaymentTxHash, txHash)
		proof.Set(HeaderPaymentChain, c.payment.Network().String())

		c.rec.IncCounter("payment_retry", map[string]string{"network": c.payment.Network().String()})

		status, respBody, err = c.do(ctx, method, path, params, body, proof)
		if err != nil {
			return nil, err
		}
	}

	if status >= 400 {
		return nil, &types.BazaarError{
			Code:    types.ErrAPIError,
			Message: fmt.Sprintf("API error %d: %s", status, truncate(respBody, 500)),
			Data:    status,
		}
	}

	if len(respBody) == 0 {
		return nil, nil
	}
	if !json.Valid(respBody) {
		return nil, &types.BazaarError{
			Code:    types.ErrAPIError,
			Message: fmt.Sprintf("API returned invalid JSON: %s", truncate(respBody, 200)),
		}
	}

	return json.RawMessage(respBody), nil
}

// do issues a single HTTP request and reads the full body.
func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body any, extra http.Header) (int, []byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range extra {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &types.BazaarError{
			Code:    types.ErrNetworkError,
			Message: fmt.Sprintf("request to %s failed: %v", path, err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &types.BazaarError{
			Code:    types.ErrNetworkError,
			Message: fmt.Sprintf("failed to read response from %s: %v", path, err),
		}
	}

	return resp.StatusCode, respBody, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}

func shortAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10] + "..."
}
