// Package payment settles x402 payment instructions with USDC transfers,
// enforcing a client-side spending budget.
package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/vitwit/x402-bazaar/clients"
	"github.com/vitwit/x402-bazaar/logger"
	"github.com/vitwit/x402-bazaar/metrics"
	"github.com/vitwit/x402-bazaar/types"
)

// Handler pays 402 payment instructions on-chain.
//
// Every payment is budget-gated: the amount is reserved before the transfer
// is attempted and committed only once the transaction is confirmed, so the
// cumulative spend never exceeds the configured ceiling even when the host
// framework invokes tools concurrently.
type Handler struct {
	client clients.Client
	state  *SpendState
	log    logger.Logger
	rec    metrics.Recorder

	mu   sync.Mutex
	used map[string]struct{} // tx hashes already presented as payment proof
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = l
	}
}

// WithMetrics sets the handler metrics recorder.
func WithMetrics(r metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.rec = r
	}
}

// NewHandler creates a payment handler settling through client, refusing
// payments once cumulative spend would exceed maxBudget USDC.
func NewHandler(client clients.Client, maxBudget decimal.Decimal, opts ...HandlerOption) *Handler {
	h := &Handler{
		client: client,
		state:  NewSpendState(maxBudget),
		log:    logger.NoopLogger{},
		rec:    metrics.NoopRecorder{},
		used:   make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.log.Info("payment handler initialized", map[string]any{
		"network": client.Network().String(),
		"wallet":  truncateAddress(client.Address().Hex()),
		"budget":  maxBudget.String(),
	})

	return h
}

// Pay transfers USDC per the instruction and returns the transaction hash.
//
// Fails with BUDGET_EXCEEDED when the projected spend exceeds the cap (before
// any chain call), INVALID_INSTRUCTION when the instruction is malformed, and
// CHAIN_ERROR when the transfer fails.
func (h *Handler) Pay(ctx context.Context, in *types.PaymentInstruction) (string, error) {
	if in == nil {
		return "", &types.BazaarError{
			Code:    types.ErrInvalidInstruction,
			Message: "payment instruction is nil",
		}
	}
	if err := in.Validate(); err != nil {
		return "", err
	}

	if err := h.state.Reserve(in.Amount); err != nil {
		h.rec.IncCounter("payment_refused", map[string]string{"network": h.client.Network().String()})
		return "", err
	}

	h.log.Info("sending payment", map[string]any{
		"amount":    in.Amount.String(),
		"recipient": truncateAddress(in.Recipient),
		"network":   h.client.Network().String(),
	})

	start := time.Now()
	txHash, err := h.client.TransferUSDC(ctx, common.HexToAddress(in.Recipient), in.AtomicAmount())
	h.rec.ObserveLatency("payment", time.Since(start), map[string]string{"network": h.client.Network().String()})
	if err != nil {
		h.state.Release(in.Amount)
		h.rec.IncCounter("payment_failed", map[string]string{"network": h.client.Network().String()})
		return "", &types.BazaarError{
			Code:    types.ErrChainError,
			Message: fmt.Sprintf("payment failed: %v", err),
		}
	}

	h.state.Commit(in.Amount)
	h.markUsed(txHash)
	h.rec.IncCounter("payment_settled", map[string]string{"network": h.client.Network().String()})

	h.log.Info("payment confirmed", map[string]any{
		"txHash":     truncateHash(txHash),
		"amount":     in.Amount.String(),
		"totalSpent": h.state.TotalSpent().String(),
	})

	return txHash, nil
}

// Balance returns the wallet's on-chain USDC balance.
func (h *Handler) Balance(ctx context.Context) (decimal.Decimal, error) {
	raw, err := h.client.BalanceOf(ctx, h.client.Address())
	if err != nil {
		return decimal.Zero, &types.BazaarError{
			Code:    types.ErrChainError,
			Message: fmt.Sprintf("balance query failed: %v", err),
		}
	}
	return types.AtomicToUSDC(raw), nil
}

// Address returns the paying wallet address.
func (h *Handler) Address() string {
	return h.client.Address().Hex()
}

// Network returns the settlement network.
func (h *Handler) Network() types.Network {
	return h.client.Network()
}

// TotalSpent returns the cumulative confirmed spend in USDC.
func (h *Handler) TotalSpent() decimal.Decimal {
	return h.state.TotalSpent()
}

// RemainingBudget returns the USDC still available for payments.
func (h *Handler) RemainingBudget() decimal.Decimal {
	return h.state.Remaining()
}

// MaxBudget returns the configured spending ceiling.
func (h *Handler) MaxBudget() decimal.Decimal {
	return h.state.MaxBudget()
}

// WasUsed reports whether txHash has already been presented as payment proof.
func (h *Handler) WasUsed(txHash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.used[txHash]
	return ok
}

// Close releases the underlying chain client.
func (h *Handler) Close() {
	h.client.Close()
}

func (h *Handler) markUsed(txHash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.used[txHash] = struct{}{}
}

func truncateAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10] + "..."
}

func truncateHash(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:18] + "..."
}
