package clients

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/vitwit/x402-bazaar/types"
)

var _ Client = (*EVMClient)(nil)

// Minimal ERC-20 ABI: transfer + balanceOf is all a buyer needs.
const erc20ABI = `
[
  {
    "name": "transfer",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      { "name": "to", "type": "address" },
      { "name": "value", "type": "uint256" }
    ],
    "outputs": [{ "name": "", "type": "bool" }]
  },
  {
    "name": "balanceOf",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{ "name": "owner", "type": "address" }],
    "outputs": [{ "name": "balance", "type": "uint256" }]
  }
]
`

// Gas limit used for every USDC transfer, matching the backend's expectation.
const transferGasLimit = 100_000

// EVMClient submits USDC transfers on an EVM network.
type EVMClient struct {
	network        types.Network
	chain          types.ChainConfig
	client         *ethclient.Client
	key            *ecdsa.PrivateKey
	address        common.Address
	token          common.Address
	tokenABI       abi.ABI
	receiptTimeout time.Duration
}

// NewEVMClient creates a client for the given network. privateKeyHex may carry
// a 0x prefix. rpcURL overrides the registry endpoint when non-empty.
func NewEVMClient(network types.Network, privateKeyHex string, rpcURL string) (*EVMClient, error) {
	chain, err := network.Config()
	if err != nil {
		return nil, err
	}
	if rpcURL == "" {
		rpcURL = chain.RPCUrl
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, &types.BazaarError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("invalid private key: %v", err),
		}
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", chain.Label, err)
	}

	return &EVMClient{
		network:        network,
		chain:          chain,
		client:         client,
		key:            key,
		address:        crypto.PubkeyToAddress(key.PublicKey),
		token:          common.HexToAddress(chain.USDCContract),
		tokenABI:       parsedABI,
		receiptTimeout: 60 * time.Second,
	}, nil
}

// Address implements Client.
func (e *EVMClient) Address() common.Address {
	return e.address
}

// Network implements Client.
func (e *EVMClient) Network() types.Network {
	return e.network
}

// BalanceOf implements Client. Returns the USDC balance in atomic units.
func (e *EVMClient) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	callData, err := e.tokenABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, err
	}

	res, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &e.token, Data: callData}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}

	out, err := e.tokenABI.Unpack("balanceOf", res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode balanceOf result: %w", err)
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf return type %T", out[0])
	}
	return balance, nil
}

// TransferUSDC implements Client. It builds, signs and submits an ERC-20
// transfer and blocks until the transaction is mined. The returned hash is
// only valid when the receipt status is success.
func (e *EVMClient) TransferUSDC(ctx context.Context, recipient common.Address, amount *big.Int) (string, error) {
	nonce, err := e.client.PendingNonceAt(ctx, e.address)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	tipCap, err := e.client.SuggestGasTipCap(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas tip: %w", err)
	}

	callData, err := e.tokenABI.Pack("transfer", recipient, amount)
	if err != nil {
		return "", err
	}

	tx := ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   big.NewInt(e.chain.ChainID),
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       transferGasLimit,
		To:        &e.token,
		Data:      callData,
	})

	signed, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(big.NewInt(e.chain.ChainID)), e.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := e.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.receiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, e.client, signed)
	if err != nil {
		return "", fmt.Errorf("transaction %s not confirmed: %w", signed.Hash().Hex(), err)
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return "", fmt.Errorf("transaction %s reverted on-chain", signed.Hash().Hex())
	}

	return signed.Hash().Hex(), nil
}

// Close implements Client.
func (e *EVMClient) Close() {
	e.client.Close()
}
