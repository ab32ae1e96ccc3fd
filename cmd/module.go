package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/config"
)

func modulesCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "Show the modules built into the relayer",
		RunE:  noCommand,
	}
	cmd.AddCommand(showModulesCmd(ctx))
	return cmd
}

type moduleInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version"`
}

type modulesOutput struct {
	Modules     []moduleInfo `json:"modules"`
	ChainTypes  []string     `json:"chain_types"`
	ProverTypes []string     `json:"prover_types"`
	ClientTypes []string     `json:"client_types"`
}

func showModulesCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Shows the modules and the chain, prover and client types they register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bi, ok := debug.ReadBuildInfo()
			if !ok {
				return errors.New("build info is unavailable")
			}
			out := modulesOutput{
				ChainTypes:  ctx.Registry.ChainTypes(),
				ProverTypes: ctx.Registry.ProverTypes(),
			}
			for _, m := range ctx.Modules {
				info, err := lookupModuleInfo(bi, m)
				if err != nil {
					return err
				}
				out.Modules = append(out.Modules, info)
			}
			slices.SortFunc(out.Modules, func(a, b moduleInfo) int {
				return strings.Compare(a.Name, b.Name)
			})
			for _, lc := range ctx.Registry.LightClients() {
				out.ClientTypes = append(out.ClientTypes, lc.ClientType())
			}

			jsn, err := cmd.Flags().GetBool(flags.JSON)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if jsn {
				bz, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(bz))
				return nil
			}
			for _, m := range out.Modules {
				fmt.Fprintf(w, "%s %s %s\n", m.Name, m.Path, m.Version)
			}
			fmt.Fprintf(w, "chain types: %s\n", strings.Join(out.ChainTypes, ", "))
			fmt.Fprintf(w, "prover types: %s\n", strings.Join(out.ProverTypes, ", "))
			fmt.Fprintf(w, "client types: %s\n", strings.Join(out.ClientTypes, ", "))
			return nil
		},
	}
	return jsonFlag(cmd)
}

// lookupModuleInfo finds the Go module that provides the package of `m`
func lookupModuleInfo(bi *debug.BuildInfo, m config.ModuleI) (moduleInfo, error) {
	pkgPath := reflect.TypeOf(m).PkgPath()
	if strings.HasPrefix(pkgPath, bi.Main.Path) {
		return moduleInfo{Name: m.Name(), Path: bi.Main.Path, Version: bi.Main.Version}, nil
	}
	for _, dep := range bi.Deps {
		if strings.HasPrefix(pkgPath, dep.Path) {
			return moduleInfo{Name: m.Name(), Path: dep.Path, Version: dep.Version}, nil
		}
	}
	return moduleInfo{}, fmt.Errorf("could not find the Go module of %s (%s)", m.Name(), pkgPath)
}
