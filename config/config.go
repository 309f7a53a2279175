// Package config loads client configuration from BAZAAR_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/vitwit/x402-bazaar/types"
)

// Env holds the raw environment configuration before conversion to
// types.ClientConfig.
type Env struct {
	PrivateKey    string        `mapstructure:"private_key"`
	BaseURL       string        `mapstructure:"base_url" validate:"required,url"`
	Chain         string        `mapstructure:"chain" validate:"required"`
	RPCUrl        string        `mapstructure:"rpc_url" validate:"omitempty,url"`
	MaxBudgetUSDC string        `mapstructure:"max_budget_usdc" validate:"required"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"required"`
	LogLevel      string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Defaults matching the hosted marketplace.
const (
	DefaultBaseURL = "https://x402-api.onrender.com"
	DefaultChain   = "base"
	DefaultBudget  = "1.0"
	DefaultTimeout = 30 * time.Second
)

// Load reads BAZAAR_* environment variables and returns a validated client
// configuration. Unset variables take the hosted-marketplace defaults.
//
// Recognized variables: BAZAAR_PRIVATE_KEY, BAZAAR_BASE_URL, BAZAAR_CHAIN,
// BAZAAR_RPC_URL, BAZAAR_MAX_BUDGET_USDC, BAZAAR_TIMEOUT, BAZAAR_LOG_LEVEL.
func Load() (*types.ClientConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BAZAAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("private_key", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("chain", DefaultChain)
	v.SetDefault("rpc_url", "")
	v.SetDefault("max_budget_usdc", DefaultBudget)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", "info")

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, &types.BazaarError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("failed to read environment: %v", err),
		}
	}

	if err := validate.Struct(&env); err != nil {
		return nil, &types.BazaarError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("invalid configuration: %v", err),
		}
	}

	network := types.Network(env.Chain)
	if !network.IsSupported() {
		return nil, &types.BazaarError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("unsupported chain %q, choose from: %v", env.Chain, types.SupportedNetworks()),
		}
	}

	budget, err := decimal.NewFromString(env.MaxBudgetUSDC)
	if err != nil || budget.IsNegative() {
		return nil, &types.BazaarError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("invalid max budget %q", env.MaxBudgetUSDC),
		}
	}

	return &types.ClientConfig{
		PrivateKey:    env.PrivateKey,
		BaseURL:       env.BaseURL,
		Network:       network,
		RPCUrl:        env.RPCUrl,
		MaxBudgetUSDC: budget,
		Timeout:       env.Timeout,
		LogLevel:      env.LogLevel,
	}, nil
}
