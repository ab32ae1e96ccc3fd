package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

func serviceCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Relay Service Commands",
		Long:  "Commands to manage the relay service",
		RunE:  noCommand,
	}
	cmd.AddCommand(
		startCmd(ctx),
	)
	return cmd
}

func startCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [path-name]",
		Short: "Relays packets and acknowledgements over the path until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst, err := ctx.Config.ChainsFromPath(ctx.Registry, args[0])
			if err != nil {
				return err
			}
			svcConfig, err := ctx.Config.ServiceConfig()
			if err != nil {
				return err
			}
			if interval := viper.GetDuration(flags.RelayInterval); interval > 0 {
				svcConfig.RelayInterval = interval
			}
			return core.StartService(cmd.Context(), src, dst, svcConfig)
		},
	}
	cmd.Flags().Duration(flags.RelayInterval, time.Duration(0), "time interval to perform relays. It overrides global.relay-interval if set")
	if err := bindFlags(cmd.Flags(), flags.RelayInterval); err != nil {
		panic(err)
	}
	return cmd
}
