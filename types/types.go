package types

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// USDCDecimals is the number of decimal places of the USDC token.
const USDCDecimals = 6

// ServiceListing describes a single service offered on the marketplace.
type ServiceListing struct {
	// Name of the service as shown to agents.
	Name string `json:"name"`

	// Endpoint is the API path of the service (e.g., "/api/search").
	Endpoint string `json:"endpoint"`

	// PriceUSDC is the per-call price in USDC. Zero for free services.
	PriceUSDC decimal.Decimal `json:"price_usdc"`

	// Description is free-form text used by agents to pick a service.
	Description string `json:"description"`
}

// MarketplaceInfo is the health and stats response of the marketplace root endpoint.
type MarketplaceInfo struct {
	Status   string `json:"status,omitempty"`
	Services int    `json:"services,omitempty"`
	Network  string `json:"network,omitempty"`
	Version  string `json:"version,omitempty"`
}

// PaymentInstruction is the payment request parsed from an HTTP 402 response body.
// It is consumed exactly once; the backend mints a fresh one per 402.
type PaymentInstruction struct {
	// Recipient is the wallet address the payment must be sent to.
	Recipient string `json:"recipient" validate:"required,eth_addr"`

	// Amount is the price in USDC (e.g., "0.001").
	Amount decimal.Decimal `json:"amount" validate:"required"`

	// Chain optionally names the chain the backend expects payment on.
	Chain string `json:"chain,omitempty"`

	// Reference is an optional backend-issued reference for the payment.
	Reference string `json:"reference,omitempty"`
}

// paymentRequiredBody is the wire shape of a 402 response from the marketplace.
type paymentRequiredBody struct {
	Error          string              `json:"error,omitempty"`
	PaymentDetails *PaymentInstruction `json:"payment_details"`
}

var validate = validator.New()

// ParsePaymentInstruction decodes and validates the payment instruction carried
// in a 402 response body. Any defect in the body is reported as INVALID_INSTRUCTION
// so callers can refuse payment without touching the chain.
func ParsePaymentInstruction(body []byte) (*PaymentInstruction, error) {
	var parsed paymentRequiredBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &BazaarError{
			Code:    ErrInvalidInstruction,
			Message: fmt.Sprintf("malformed 402 body: %v", err),
		}
	}

	if parsed.PaymentDetails == nil {
		return nil, &BazaarError{
			Code:    ErrInvalidInstruction,
			Message: "402 response missing payment_details",
		}
	}

	in := parsed.PaymentDetails
	if err := in.Validate(); err != nil {
		return nil, err
	}

	return in, nil
}

// Validate checks that the instruction is payable: a well-formed recipient
// address and a positive amount representable in USDC atomic units.
func (in *PaymentInstruction) Validate() error {
	if err := validate.Struct(in); err != nil {
		return &BazaarError{
			Code:    ErrInvalidInstruction,
			Message: fmt.Sprintf("invalid payment instruction: %v", err),
		}
	}

	if !in.Amount.IsPositive() {
		return &BazaarError{
			Code:    ErrInvalidInstruction,
			Message: fmt.Sprintf("payment amount must be positive, got %s", in.Amount),
		}
	}

	if !in.Amount.Shift(USDCDecimals).IsInteger() {
		return &BazaarError{
			Code:    ErrInvalidInstruction,
			Message: fmt.Sprintf("payment amount %s has more than %d decimal places", in.Amount, USDCDecimals),
		}
	}

	return nil
}

// AtomicAmount returns the instruction amount in USDC atomic units (6 decimals).
func (in *PaymentInstruction) AtomicAmount() *big.Int {
	return in.Amount.Shift(USDCDecimals).BigInt()
}

// USDCToAtomic converts a USDC amount to atomic units.
func USDCToAtomic(amount decimal.Decimal) *big.Int {
	return amount.Shift(USDCDecimals).BigInt()
}

// AtomicToUSDC converts an atomic unit amount back to USDC.
func AtomicToUSDC(raw *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -USDCDecimals)
}

// DecodeServiceList decodes a marketplace service listing response. The backend
// has returned a bare array, {"services": [...]} and {"data": [...]} across
// versions; all three are accepted.
func DecodeServiceList(raw json.RawMessage) ([]ServiceListing, error) {
	var listings []ServiceListing
	if err := json.Unmarshal(raw, &listings); err == nil {
		return listings, nil
	}

	var wrapped struct {
		Services []ServiceListing `json:"services"`
		Data     []ServiceListing `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &BazaarError{
			Code:    ErrAPIError,
			Message: fmt.Sprintf("unexpected service list shape: %v", err),
		}
	}

	if wrapped.Services != nil {
		return wrapped.Services, nil
	}
	return wrapped.Data, nil
}
