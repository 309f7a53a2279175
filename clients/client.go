package clients

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vitwit/x402-bazaar/types"
)

// Client is the chain-side contract the payment handler settles USDC through.
type Client interface {
	TransferUSDC(ctx context.Context, recipient common.Address, amount *big.Int) (string, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Address() common.Address
	Network() types.Network
	Close()
}
