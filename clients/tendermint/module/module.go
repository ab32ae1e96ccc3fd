package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/clients/tendermint"
	"github.com/hyperledger-labs/yui-relay-core/config"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "tendermint.client"
}

// RegisterInterfaces registers the tendermint light client
func (Module) RegisterInterfaces(registry *config.Registry) {
	registry.RegisterLightClient(tendermint.NewLightClient())
}

// GetCmd returns nil because the module has no command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return nil
}
