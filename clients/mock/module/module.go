package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/clients/mock"
	"github.com/hyperledger-labs/yui-relay-core/config"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "mock.client"
}

// RegisterInterfaces registers the mock light client
func (Module) RegisterInterfaces(registry *config.Registry) {
	registry.RegisterLightClient(mock.LightClient{})
}

// GetCmd returns nil because the module has no command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return nil
}
