package types

import "fmt"

// Network represents a chain the marketplace settles USDC payments on.
type Network string

const (
	NetworkBase        Network = "base"
	NetworkBaseSepolia Network = "base-sepolia" // testnet
	NetworkSkale       Network = "skale"
)

// ChainConfig carries the per-network constants used to submit payments.
type ChainConfig struct {
	RPCUrl       string `json:"rpcUrl"`
	USDCContract string `json:"usdcContract"`
	ChainID      int64  `json:"chainId"`
	Label        string `json:"label"`
}

// Chain registry matching the x402 Bazaar backend.
var chainConfigs = map[Network]ChainConfig{
	NetworkBase: {
		RPCUrl:       "https://mainnet.base.org",
		USDCContract: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		ChainID:      8453,
		Label:        "Base",
	},
	NetworkBaseSepolia: {
		RPCUrl:       "https://sepolia.base.org",
		USDCContract: "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		ChainID:      84532,
		Label:        "Base Sepolia",
	},
	NetworkSkale: {
		RPCUrl:       "https://mainnet.skalenodes.com/v1/elated-tan-skat",
		USDCContract: "0x5F795bb52dAc3085f578f4877D450e2929D2F13d",
		ChainID:      2046399126,
		Label:        "SKALE Europa",
	},
}

// Config returns the chain constants for the network.
func (n Network) Config() (ChainConfig, error) {
	cfg, ok := chainConfigs[n]
	if !ok {
		return ChainConfig{}, &BazaarError{
			Code:    ErrUnsupportedNetwork,
			Message: fmt.Sprintf("unsupported network: %s, choose from: %v", n, SupportedNetworks()),
		}
	}
	return cfg, nil
}

// IsSupported reports whether the network is known to the chain registry.
func (n Network) IsSupported() bool {
	_, ok := chainConfigs[n]
	return ok
}

func (n Network) IsTestnet() bool {
	return n == NetworkBaseSepolia
}

func (n Network) String() string {
	return string(n)
}

// SupportedNetworks returns all networks payments can be made on.
func SupportedNetworks() []Network {
	return []Network{NetworkBase, NetworkBaseSepolia, NetworkSkale}
}
