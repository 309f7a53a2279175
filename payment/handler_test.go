package payment

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/x402-bazaar/types"
)

const (
	testRecipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	testTxHash    = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

// fakeChain records transfers instead of touching a network.
type fakeChain struct {
	mu        sync.Mutex
	transfers []*big.Int
	balance   *big.Int
	failWith  error
}

func (f *fakeChain) TransferUSDC(_ context.Context, _ common.Address, amount *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.transfers = append(f.transfers, amount)
	return testTxHash, nil
}

func (f *fakeChain) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

func (f *fakeChain) Address() common.Address {
	return common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
}

func (f *fakeChain) Network() types.Network { return types.NetworkBaseSepolia }
func (f *fakeChain) Close()                 {}

func (f *fakeChain) transferCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transfers)
}

func instruction(amount string) *types.PaymentInstruction {
	return &types.PaymentInstruction{
		Recipient: testRecipient,
		Amount:    d(amount),
	}
}

func TestHandler_PaySuccess(t *testing.T) {
	chain := &fakeChain{}
	h := NewHandler(chain, d("1.0"))

	txHash, err := h.Pay(context.Background(), instruction("0.05"))
	require.NoError(t, err)
	assert.Equal(t, testTxHash, txHash)
	assert.True(t, h.WasUsed(txHash))

	require.Equal(t, 1, chain.transferCount())
	assert.Equal(t, big.NewInt(50_000), chain.transfers[0], "0.05 USDC in atomic units")
	assert.True(t, d("0.05").Equal(h.TotalSpent()))
	assert.True(t, d("0.95").Equal(h.RemainingBudget()))
}

func TestHandler_BudgetRefusedBeforeChainCall(t *testing.T) {
	chain := &fakeChain{}
	h := NewHandler(chain, d("0.50"))

	_, err := h.Pay(context.Background(), instruction("0.30"))
	require.NoError(t, err)

	_, err = h.Pay(context.Background(), instruction("0.30"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrBudgetExceeded))

	assert.Equal(t, 1, chain.transferCount(), "refused payment must never reach the chain")
	assert.True(t, d("0.30").Equal(h.TotalSpent()))
}

func TestHandler_ChainFailureReleasesReservation(t *testing.T) {
	chain := &fakeChain{failWith: errors.New("nonce too low")}
	h := NewHandler(chain, d("1.0"))

	_, err := h.Pay(context.Background(), instruction("0.40"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrChainError))

	assert.True(t, h.TotalSpent().IsZero())
	assert.True(t, d("1.0").Equal(h.RemainingBudget()), "failed transfer must return its reservation")

	// Budget is intact, a later payment still fits.
	chain.failWith = nil
	_, err = h.Pay(context.Background(), instruction("1.0"))
	require.NoError(t, err)
}

func TestHandler_InvalidInstruction(t *testing.T) {
	chain := &fakeChain{}
	h := NewHandler(chain, d("1.0"))

	for _, in := range []*types.PaymentInstruction{
		nil,
		{Recipient: "", Amount: d("0.1")},
		{Recipient: testRecipient, Amount: d("0")},
		{Recipient: "garbage", Amount: d("0.1")},
	} {
		_, err := h.Pay(context.Background(), in)
		require.Error(t, err)
		assert.True(t, types.IsCode(err, types.ErrInvalidInstruction))
	}

	assert.Equal(t, 0, chain.transferCount())
}

func TestHandler_Balance(t *testing.T) {
	chain := &fakeChain{balance: big.NewInt(12_345_678)}
	h := NewHandler(chain, d("1.0"))

	balance, err := h.Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, d("12.345678").Equal(balance))
}

func TestHandler_Accessors(t *testing.T) {
	h := NewHandler(&fakeChain{}, d("2.5"))

	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", h.Address())
	assert.Equal(t, types.NetworkBaseSepolia, h.Network())
	assert.True(t, d("2.5").Equal(h.MaxBudget()))
	assert.False(t, h.WasUsed(testTxHash))
}

func TestHandler_ConcurrentPaysRespectBudget(t *testing.T) {
	chain := &fakeChain{}
	h := NewHandler(chain, d("0.10"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.Pay(context.Background(), instruction("0.03"))
		}()
	}
	wg.Wait()

	assert.True(t, h.TotalSpent().LessThanOrEqual(d("0.10")))
	assert.Equal(t, 3, chain.transferCount(), "only three 0.03 payments fit under 0.10")
}
