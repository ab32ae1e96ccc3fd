package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var flags = struct {
	Home           string
	LogLevel       string
	JSON           string
	File           string
	ClientType     string
	ClientState    string
	ConsensusState string
	Header         string
	RelayInterval  string
}{
	Home:           "home",
	LogLevel:       "log-level",
	JSON:           "json",
	File:           "file",
	ClientType:     "client-type",
	ClientState:    "client-state",
	ConsensusState: "consensus-state",
	Header:         "header",
	RelayInterval:  "relay-interval",
}

// bindFlags binds the flags `names` of `fs` to viper keys of the same names
func bindFlags(fs *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func fileFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringP(flags.File, "f", "", "fetch json data from specified file")
	return cmd
}

func jsonFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolP(flags.JSON, "j", false, "returns the response in json format")
	return cmd
}

func clientStateFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flags.ClientType, "", "type of the client (e.g. 07-tendermint)")
	cmd.Flags().String(flags.ClientState, "", "path of the client state in json")
	cmd.Flags().String(flags.ConsensusState, "", "path of the initial consensus state in json")
	for _, name := range []string{flags.ClientType, flags.ClientState, flags.ConsensusState} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func headerFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flags.Header, "", "path of the header in json")
	if err := cmd.MarkFlagRequired(flags.Header); err != nil {
		panic(err)
	}
	return cmd
}
