package payment

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vitwit/x402-bazaar/types"
)

// SpendState tracks cumulative USDC spending against a configured ceiling.
//
// Payments hold a reservation while the transfer is in flight, so concurrent
// tool invocations can never jointly exceed the budget: the sum of committed
// and reserved amounts is bounded by the ceiling at all times. Committed spend
// never decreases.
type SpendState struct {
	mu        sync.Mutex
	maxBudget decimal.Decimal
	spent     decimal.Decimal
	reserved  decimal.Decimal
}

// NewSpendState creates a ledger with the given budget ceiling.
func NewSpendState(maxBudget decimal.Decimal) *SpendState {
	return &SpendState{maxBudget: maxBudget}
}

// Reserve claims amount against the remaining budget. It fails with
// BUDGET_EXCEEDED when the projected total would breach the ceiling,
// before any chain interaction happens.
func (s *SpendState) Reserve(amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projected := s.spent.Add(s.reserved).Add(amount)
	if projected.GreaterThan(s.maxBudget) {
		return &types.BazaarError{
			Code: types.ErrBudgetExceeded,
			Message: fmt.Sprintf(
				"payment of %s USDC would exceed budget: spent %s, budget %s, remaining %s",
				amount, s.spent, s.maxBudget, s.remainingLocked(),
			),
		}
	}

	s.reserved = s.reserved.Add(amount)
	return nil
}

// Commit converts a reservation into committed spend after a confirmed transfer.
func (s *SpendState) Commit(amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reserved = s.reserved.Sub(amount)
	s.spent = s.spent.Add(amount)
}

// Release returns a reservation to the budget after a failed transfer.
func (s *SpendState) Release(amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reserved = s.reserved.Sub(amount)
}

// TotalSpent returns the committed spend.
func (s *SpendState) TotalSpent() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spent
}

// MaxBudget returns the configured ceiling.
func (s *SpendState) MaxBudget() decimal.Decimal {
	return s.maxBudget
}

// Remaining returns the budget still available for new payments.
func (s *SpendState) Remaining() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *SpendState) remainingLocked() decimal.Decimal {
	remaining := s.maxBudget.Sub(s.spent).Sub(s.reserved)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
