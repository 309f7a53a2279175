package types

import "errors"

// BazaarError is the error type surfaced by this library.
type BazaarError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *BazaarError) Error() string {
	return e.Message
}

// Common error codes
const (
	ErrBudgetExceeded     = "BUDGET_EXCEEDED"
	ErrChainError         = "CHAIN_ERROR"
	ErrInvalidInstruction = "INVALID_INSTRUCTION"
	ErrAPIError           = "API_ERROR"
	ErrNetworkError       = "NETWORK_ERROR"
	ErrNoWallet           = "NO_WALLET"
	ErrConfigError        = "CONFIG_ERROR"
	ErrUnsupportedNetwork = "UNSUPPORTED_NETWORK"
)

// IsCode reports whether err is a BazaarError carrying the given code.
func IsCode(err error, code string) bool {
	var be *BazaarError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
