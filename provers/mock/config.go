package mock

import (
	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

// ProverType is the type name of the mock prover in the configuration
const ProverType = "mock"

// ProverConfig is the configuration of the mock prover
type ProverConfig struct {
	// FinalityDelay is the number of blocks after which a block is regarded as finalized
	FinalityDelay uint64 `json:"finality-delay" yaml:"finality-delay" mapstructure:"finality-delay"`
}

var _ config.ProverConfig = (*ProverConfig)(nil)

func (c *ProverConfig) Build(chain core.Chain) (core.Prover, error) {
	return NewProver(chain, *c), nil
}

func (c *ProverConfig) Validate() error {
	return nil
}
