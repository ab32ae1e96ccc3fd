package config

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/clients"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

// ModuleI defines an interface of Module
type ModuleI interface {
	// Name returns the name of the module
	Name() string

	// RegisterInterfaces registers the implementations of the module to the registry
	RegisterInterfaces(registry *Registry)

	// GetCmd returns the command of the module. It may return nil.
	GetCmd(ctx *Context) *cobra.Command
}

// ChainConfig defines a chain configuration and its builder
type ChainConfig interface {
	Build() (core.Chain, error)
	Validate() error
}

// ProverConfig defines a prover configuration and its builder
type ProverConfig interface {
	Build(core.Chain) (core.Prover, error)
	Validate() error
}

// Registry maps the type names in the configuration to the implementations provided by modules
type Registry struct {
	chains       map[string]func() ChainConfig
	provers      map[string]func() ProverConfig
	lightClients map[string]clients.LightClient
}

func NewRegistry() *Registry {
	return &Registry{
		chains:       make(map[string]func() ChainConfig),
		provers:      make(map[string]func() ProverConfig),
		lightClients: make(map[string]clients.LightClient),
	}
}

// RegisterChainConfig registers the constructor of the chain config of `typeName`.
// It panics if `typeName` is already registered.
func (r *Registry) RegisterChainConfig(typeName string, newConfig func() ChainConfig) {
	if _, ok := r.chains[typeName]; ok {
		panic(fmt.Sprintf("chain type %s is already registered", typeName))
	}
	r.chains[typeName] = newConfig
}

// RegisterProverConfig registers the constructor of the prover config of `typeName`.
// It panics if `typeName` is already registered.
func (r *Registry) RegisterProverConfig(typeName string, newConfig func() ProverConfig) {
	if _, ok := r.provers[typeName]; ok {
		panic(fmt.Sprintf("prover type %s is already registered", typeName))
	}
	r.provers[typeName] = newConfig
}

// RegisterLightClient registers a light client by its client type.
// It panics if the client type is already registered.
func (r *Registry) RegisterLightClient(lc clients.LightClient) {
	if _, ok := r.lightClients[lc.ClientType()]; ok {
		panic(fmt.Sprintf("client type %s is already registered", lc.ClientType()))
	}
	r.lightClients[lc.ClientType()] = lc
}

func (r *Registry) newChainConfig(typeName string) (ChainConfig, error) {
	newConfig, ok := r.chains[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown chain type: %s", typeName)
	}
	return newConfig(), nil
}

func (r *Registry) newProverConfig(typeName string) (ProverConfig, error) {
	newConfig, ok := r.provers[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown prover type: %s", typeName)
	}
	return newConfig(), nil
}

// LightClient returns the light client of `clientType`
func (r *Registry) LightClient(clientType string) (clients.LightClient, error) {
	lc, ok := r.lightClients[clientType]
	if !ok {
		return nil, fmt.Errorf("unknown client type: %s", clientType)
	}
	return lc, nil
}

// LightClients returns the registered light clients in the order of client type
func (r *Registry) LightClients() []clients.LightClient {
	var lcs []clients.LightClient
	for _, lc := range r.lightClients {
		lcs = append(lcs, lc)
	}
	sort.Slice(lcs, func(i, j int) bool {
		return lcs[i].ClientType() < lcs[j].ClientType()
	})
	return lcs
}

// ChainTypes returns the registered chain types in sorted order
func (r *Registry) ChainTypes() []string {
	return sortedKeys(r.chains)
}

// ProverTypes returns the registered prover types in sorted order
func (r *Registry) ProverTypes() []string {
	return sortedKeys(r.provers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
