package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/provers/mock"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "mock.prover"
}

// RegisterInterfaces registers the prover config of the module
func (Module) RegisterInterfaces(registry *config.Registry) {
	registry.RegisterProverConfig(mock.ProverType, func() config.ProverConfig {
		return &mock.ProverConfig{}
	})
}

// GetCmd returns nil because the module has no command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return nil
}
