package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/x402-bazaar/types"
)

// Well-known anvil dev key, safe to embed.
const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestNewEVMClient(t *testing.T) {
	client, err := NewEVMClient(types.NetworkBaseSepolia, testPrivateKey, "http://127.0.0.1:8545")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, testAddress, client.Address().Hex())
	assert.Equal(t, types.NetworkBaseSepolia, client.Network())
}

func TestNewEVMClient_AcceptsHexPrefix(t *testing.T) {
	client, err := NewEVMClient(types.NetworkBase, "0x"+testPrivateKey, "http://127.0.0.1:8545")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, testAddress, client.Address().Hex())
}

func TestNewEVMClient_InvalidKey(t *testing.T) {
	_, err := NewEVMClient(types.NetworkBase, "not-a-key", "")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestNewEVMClient_UnsupportedNetwork(t *testing.T) {
	_, err := NewEVMClient(types.Network("solana"), testPrivateKey, "")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrUnsupportedNetwork))
}
