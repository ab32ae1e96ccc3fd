package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

// typeKey is the key of the type name in a chain or prover configuration
const typeKey = "@type"

// ChainProverConfig defines the top level configuration for a chain instance.
// Each of Chain and Prover carries its type name under "@type" along with the fields of the type.
type ChainProverConfig struct {
	Chain  map[string]any `json:"chain" yaml:"chain" mapstructure:"chain"`
	Prover map[string]any `json:"prover" yaml:"prover" mapstructure:"prover"`
}

// Build returns a new ProvableChain instance
func (cc ChainProverConfig) Build(registry *Registry) (*core.ProvableChain, error) {
	chainConfig, err := decodeConfig(cc.Chain, registry.newChainConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid chain config: %w", err)
	}
	proverConfig, err := decodeConfig(cc.Prover, registry.newProverConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid prover config: %w", err)
	}
	chain, err := chainConfig.Build()
	if err != nil {
		return nil, err
	}
	prover, err := proverConfig.Build(chain)
	if err != nil {
		return nil, err
	}
	return core.NewProvableChain(chain, prover), nil
}

type validatable interface {
	Validate() error
}

func decodeConfig[T validatable](raw map[string]any, newConfig func(typeName string) (T, error)) (T, error) {
	var zero T
	typeName, ok := raw[typeKey].(string)
	if !ok {
		return zero, fmt.Errorf("%q is not set", typeKey)
	}
	cfg, err := newConfig(typeName)
	if err != nil {
		return zero, err
	}
	v := viper.New()
	if err := v.MergeConfigMap(raw); err != nil {
		return zero, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return zero, err
	}
	if err := cfg.Validate(); err != nil {
		return zero, err
	}
	return cfg, nil
}

type Chains []*core.ProvableChain

// Get returns the configuration for a given chain
func (cs Chains) Get(chainID string) (*core.ProvableChain, error) {
	for _, chain := range cs {
		if chainID == chain.ChainID() {
			return chain, nil
		}
	}
	return nil, fmt.Errorf("chain with ID %s is not configured", chainID)
}
