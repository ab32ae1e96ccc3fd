package mock

import (
	"errors"
	"time"

	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

// ChainType is the type name of the mock chain in the configuration
const ChainType = "mock"

type ChainConfig struct {
	ChainID        string        `json:"chain-id" yaml:"chain-id" mapstructure:"chain-id"`
	RevisionNumber uint64        `json:"revision-number" yaml:"revision-number" mapstructure:"revision-number"`
	BlockTime      time.Duration `json:"block-time" yaml:"block-time" mapstructure:"block-time"`
}

var _ config.ChainConfig = (*ChainConfig)(nil)

func (c *ChainConfig) Build() (core.Chain, error) {
	return NewChain(*c, time.Now()), nil
}

func (c *ChainConfig) Validate() error {
	if c.ChainID == "" {
		return errors.New("chain-id must not be empty")
	}
	if c.BlockTime <= 0 {
		return errors.New("block-time must be positive")
	}
	return nil
}
