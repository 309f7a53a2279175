package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientConfig contains configuration for the bazaar client.
type ClientConfig struct {
	// PrivateKey is the hex-encoded wallet key used for USDC payments.
	// Leave empty for a wallet-less client restricted to free endpoints.
	PrivateKey string `json:"-"`

	// BaseURL of the x402 Bazaar API.
	BaseURL string `json:"baseUrl,omitempty"`

	// Network payments are settled on.
	Network Network `json:"network,omitempty"`

	// RPCUrl overrides the registry RPC endpoint for the network.
	RPCUrl string `json:"rpcUrl,omitempty"`

	// MaxBudgetUSDC is the cumulative spending ceiling.
	MaxBudgetUSDC decimal.Decimal `json:"maxBudgetUsdc,omitempty"`

	// Timeout applies to each marketplace HTTP request.
	Timeout time.Duration `json:"timeout,omitempty"`

	// LogLevel for the default logger ("debug", "info", "warn", "error").
	LogLevel string `json:"logLevel,omitempty"`
}
