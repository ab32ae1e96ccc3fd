package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/internal/telemetry"
	"github.com/hyperledger-labs/yui-relay-core/log"
)

var (
	homePath    string
	defaultHome = os.ExpandEnv("$HOME/.yrc")
)

const (
	appName    = "yrc"
	configPath = "config/config.yaml"
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(modules ...config.ModuleI) error {
	// rootCmd represents the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use:   appName,
		Short: "This application updates light clients and relays packets between configured IBC enabled chains",
	}

	cobra.EnableCommandSorting = false
	rootCmd.SilenceUsage = true

	// Register top level flags --home and --log-level
	rootCmd.PersistentFlags().StringVar(&homePath, flags.Home, defaultHome, "set home directory")
	rootCmd.PersistentFlags().String(flags.LogLevel, "", "override the log level in the config")
	if err := bindFlags(rootCmd.PersistentFlags(), flags.Home, flags.LogLevel); err != nil {
		return err
	}

	ctx := config.NewContext(modules, &config.Config{})

	var shutdownOTel func(context.Context) error
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// reads `homeDir/config/config.yaml` into `ctx.Config` before each command
		if err := initConfig(ctx); err != nil {
			return err
		}
		global := ctx.Config.Global
		logLevel := global.LoggerConfig.Level
		if l := viper.GetString(flags.LogLevel); l != "" {
			logLevel = l
		}
		if err := log.InitLogger(logLevel, global.LoggerConfig.Format, global.LoggerConfig.Output, global.LoggerConfig.EnableTelemetry); err != nil {
			return err
		}
		if global.LoggerConfig.EnableTelemetry {
			shutdown, err := telemetry.SetupOTelSDK(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to set up the OpenTelemetry SDK: %w", err)
			}
			shutdownOTel = shutdown
			if err := telemetry.InitializeMetrics(); err != nil {
				return err
			}
		}
		return nil
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if shutdownOTel == nil {
			return nil
		}
		return shutdownOTel(context.Background())
	}

	rootCmd.AddCommand(
		configCmd(ctx),
		pathsCmd(ctx),
		clientCmd(ctx),
		serviceCmd(ctx),
		modulesCmd(ctx),
	)

	// Register subcommands of modules
	for _, module := range modules {
		if cmd := module.GetCmd(ctx); cmd != nil {
			rootCmd.AddCommand(cmd)
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(sigCtx)
}

// initConfig reads the config file if it exists. Otherwise the default config is used.
func initConfig(ctx *config.Context) error {
	cfgPath := filepath.Join(homePath, configPath)
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		cfg := config.DefaultConfig(homePath)
		ctx.Config = &cfg
		return nil
	} else if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(homePath, cfgPath)
	if err != nil {
		return err
	}
	ctx.Config = cfg
	return nil
}

func noCommand(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}
