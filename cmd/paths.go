package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

func pathsCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "paths",
		Aliases: []string{"pth"},
		Short:   "manage the paths packets are relayed over",
		Long: `A path names two chains together with the client, connection, channel and port
identifiers on each of them. The relay and service commands take a path name.`,
		RunE: noCommand,
	}
	cmd.AddCommand(
		pathsListCmd(ctx),
		pathsShowCmd(ctx),
		pathsAddCmd(ctx),
	)
	return cmd
}

func pathsListCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "print the configured paths one per line",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ctx.Config.Paths.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, ctx.Config.Paths[name])
			}
			return nil
		},
	}
}

func pathsShowCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path-name]",
		Short: "print the configuration of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.Config.Paths.Get(args[0])
			if err != nil {
				return err
			}
			return printOutput(cmd, path)
		},
	}
	return jsonFlag(cmd)
}

func pathsAddCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [path-name]",
		Short: "add a path read from a json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString(flags.File)
			if err != nil {
				return err
			}
			path, err := readPath(file)
			if err != nil {
				return err
			}
			if err := ctx.Config.AddPath(args[0], path); err != nil {
				return err
			}
			return ctx.Config.Save()
		},
	}
	cmd = fileFlag(cmd)
	if err := cmd.MarkFlagRequired(flags.File); err != nil {
		panic(err)
	}
	return cmd
}

func readPath(file string) (*core.Path, error) {
	bz, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var path core.Path
	if err := json.Unmarshal(bz, &path); err != nil {
		return nil, fmt.Errorf("failed to parse path in %s: %w", file, err)
	}
	return &path, nil
}
