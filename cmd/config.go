package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/hyperledger-labs/yui-relay-core/config"
)

func configCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "manage the configuration file",
		RunE:    noCommand,
	}
	cmd.AddCommand(
		configInitCmd(ctx),
		configShowCmd(ctx),
		configValidateCmd(ctx),
	)
	return cmd
}

func configInitCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "write the default configuration under --home",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch _, err := os.Stat(ctx.Config.ConfigPath); {
			case err == nil:
				return fmt.Errorf("config already exists: %s", ctx.Config.ConfigPath)
			case !errors.Is(err, os.ErrNotExist):
				return err
			}
			cfg := config.DefaultConfig(homePath)
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", cfg.ConfigPath)
			return nil
		},
	}
}

func configShowCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"s", "list", "l"},
		Short:   "print the loaded configuration",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfigFile(ctx); err != nil {
				return err
			}
			return printOutput(cmd, ctx.Config)
		},
	}
	return jsonFlag(cmd)
}

func configValidateCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "check the configured paths and chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfigFile(ctx); err != nil {
				return err
			}
			if err := ctx.Config.Validate(); err != nil {
				return err
			}
			if _, err := ctx.Config.BuildChains(ctx.Registry); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func requireConfigFile(ctx *config.Context) error {
	if _, err := os.Stat(ctx.Config.ConfigPath); err != nil {
		return fmt.Errorf("config %s: %w", ctx.Config.ConfigPath, err)
	}
	return nil
}

// printOutput writes `v` to the command output in YAML, or in JSON if --json is set
func printOutput(cmd *cobra.Command, v any) error {
	jsn, err := cmd.Flags().GetBool(flags.JSON)
	if err != nil {
		return err
	}
	var out []byte
	if jsn {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
