package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentInstruction(t *testing.T) {
	body := []byte(`{
		"error": "Payment required",
		"payment_details": {
			"amount": "0.001",
			"recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			"chain": "base",
			"reference": "req-42"
		}
	}`)

	in, err := ParsePaymentInstruction(body)
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", in.Recipient)
	assert.True(t, decimal.RequireFromString("0.001").Equal(in.Amount))
	assert.Equal(t, "base", in.Chain)
	assert.Equal(t, "req-42", in.Reference)
	assert.Equal(t, big.NewInt(1000), in.AtomicAmount())
}

func TestParsePaymentInstruction_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"payment_details": `},
		{"missing details", `{"error": "Payment required"}`},
		{"missing recipient", `{"payment_details": {"amount": "0.5"}}`},
		{"bad recipient", `{"payment_details": {"amount": "0.5", "recipient": "not-an-address"}}`},
		{"zero amount", `{"payment_details": {"amount": "0", "recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}}`},
		{"negative amount", `{"payment_details": {"amount": "-0.1", "recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}}`},
		{"sub-atomic amount", `{"payment_details": {"amount": "0.0000001", "recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePaymentInstruction([]byte(tc.body))
			require.Error(t, err)
			assert.True(t, IsCode(err, ErrInvalidInstruction), "want INVALID_INSTRUCTION, got %v", err)
		})
	}
}

func TestUSDCConversion(t *testing.T) {
	atomic := USDCToAtomic(decimal.RequireFromString("1.5"))
	assert.Equal(t, big.NewInt(1_500_000), atomic)

	back := AtomicToUSDC(atomic)
	assert.True(t, decimal.RequireFromString("1.5").Equal(back))

	assert.Equal(t, big.NewInt(1), USDCToAtomic(decimal.RequireFromString("0.000001")))
}

func TestDecodeServiceList(t *testing.T) {
	listing := `{"name":"weather","endpoint":"/api/weather","price_usdc":"0.001","description":"city weather"}`

	for _, raw := range []string{
		`[` + listing + `]`,
		`{"services":[` + listing + `]}`,
		`{"data":[` + listing + `]}`,
	} {
		services, err := DecodeServiceList(json.RawMessage(raw))
		require.NoError(t, err)
		require.Len(t, services, 1)
		assert.Equal(t, "weather", services[0].Name)
		assert.Equal(t, "/api/weather", services[0].Endpoint)
		assert.True(t, decimal.RequireFromString("0.001").Equal(services[0].PriceUSDC))
	}

	_, err := DecodeServiceList(json.RawMessage(`"nope"`))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrAPIError))
}

func TestNetworkConfig(t *testing.T) {
	cfg, err := NetworkBase.Config()
	require.NoError(t, err)
	assert.Equal(t, int64(8453), cfg.ChainID)
	assert.Equal(t, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", cfg.USDCContract)
	assert.Equal(t, "Base", cfg.Label)

	cfg, err = NetworkSkale.Config()
	require.NoError(t, err)
	assert.Equal(t, int64(2046399126), cfg.ChainID)

	_, err = Network("solana").Config()
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrUnsupportedNetwork))

	assert.True(t, NetworkBaseSepolia.IsTestnet())
	assert.False(t, NetworkBase.IsTestnet())
	assert.True(t, NetworkBase.IsSupported())
	assert.False(t, Network("solana").IsSupported())
}

func TestIsCode(t *testing.T) {
	err := &BazaarError{Code: ErrBudgetExceeded, Message: "over budget"}
	assert.True(t, IsCode(err, ErrBudgetExceeded))
	assert.False(t, IsCode(err, ErrChainError))
	assert.False(t, IsCode(assert.AnError, ErrBudgetExceeded))
}
