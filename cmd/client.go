package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-relay-core/clients"
	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/log"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

func clientCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "manage light clients in the local client store",
		Long: `
The client commands operate on the client store under global.client-store-dir
without connecting to any chain. The client type must be provided by a registered module.`,
		RunE: noCommand,
	}

	cmd.AddCommand(
		clientCreateCmd(ctx),
		clientUpdateCmd(ctx),
		clientStatusCmd(ctx),
	)

	return cmd
}

func clientCreateCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [client-id]",
		Short: "create a client with an initial client state and consensus state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := args[0]
			clientType, _ := cmd.Flags().GetString(flags.ClientType)
			lc, err := ctx.Registry.LightClient(clientType)
			if err != nil {
				return err
			}
			clientState, err := readJSON(cmd, flags.ClientState, lc.DecodeClientState)
			if err != nil {
				return err
			}
			consensusState, err := readJSON(cmd, flags.ConsensusState, lc.DecodeConsensusState)
			if err != nil {
				return err
			}

			return withClientStore(ctx, func(st *store.DBStore) error {
				c := cmd.Context()
				unlock := st.LockClient(clientID)
				defer unlock()
				if _, err := st.GetClientState(c, clientID); err == nil {
					return fmt.Errorf("client %s already exists", clientID)
				} else if !errors.Is(err, core.ErrClientNotFound) {
					return err
				}
				if err := st.SetClientState(c, clientID, clientState); err != nil {
					return err
				}
				if err := st.SetConsensusState(c, clientID, clientState.GetLatestHeight(), consensusState); err != nil {
					return err
				}
				log.GetLogger().WithModule("client").InfoContext(c, "client created",
					"client_id", clientID,
					"client_type", clientType,
					"height", clientState.GetLatestHeight().String(),
				)
				return nil
			})
		},
	}
	return clientStateFlags(cmd)
}

func clientUpdateCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [client-id]",
		Short: "verify a header and update the client with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := args[0]
			return withClientStore(ctx, func(st *store.DBStore) error {
				c := cmd.Context()
				clientState, err := st.GetClientState(c, clientID)
				if err != nil {
					return err
				}
				lc, err := ctx.Registry.LightClient(clientState.ClientType())
				if err != nil {
					return err
				}
				header, err := readJSON(cmd, flags.Header, lc.DecodeHeader)
				if err != nil {
					return err
				}
				handler := newUpdateClientHandler(lc, st)
				return handler.HandleUpdate(c, clientID, header)
			})
		},
	}
	return headerFlag(cmd)
}

func clientStatusCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [client-id]",
		Short: "print the status of the client (Active, Frozen or Expired)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := args[0]
			return withClientStore(ctx, func(st *store.DBStore) error {
				c := cmd.Context()
				clientState, err := st.GetClientState(c, clientID)
				if err != nil {
					return err
				}
				lc, err := ctx.Registry.LightClient(clientState.ClientType())
				if err != nil {
					return err
				}
				status, err := newUpdateClientHandler(lc, st).ClientStatus(c, clientID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
	return cmd
}

// localChainID identifies the host of the client store in logs and traces
const localChainID = "local"

func newUpdateClientHandler(lc clients.LightClient, st *store.DBStore) *core.UpdateClientHandler {
	clock := core.SystemClock{}
	logger := log.GetLogger().WithModule("client")
	emitter := core.EventEmitterFunc(func(ctx context.Context, event core.Event) {
		switch ev := event.(type) {
		case *core.UpdateClientEvent:
			logger.InfoContext(ctx, "client updated", "client_id", ev.ClientID, "height", ev.Height.String())
		case *core.MisbehaviourEvent:
			logger.WarnContext(ctx, "client frozen for misbehaviour", "client_id", ev.ClientID, "height", ev.Height.String())
		}
	})
	clientCtx := core.NewClientContext(st, lc.NewVerifier(st, clock), clock, emitter)
	return core.NewUpdateClientHandler(localChainID, clientCtx)
}

func withClientStore(ctx *config.Context, fn func(st *store.DBStore) error) error {
	st, err := store.OpenDBStore(ctx.Config.Global.ClientStoreDir, clients.Codecs(ctx.Registry.LightClients()...))
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func readJSON[T any](cmd *cobra.Command, flagName string, decode func([]byte) (T, error)) (T, error) {
	var zero T
	file, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return zero, err
	}
	bz, err := os.ReadFile(file)
	if err != nil {
		return zero, err
	}
	if !json.Valid(bz) {
		return zero, fmt.Errorf("%s is not a valid json file", file)
	}
	v, err := decode(bz)
	if err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return v, nil
}
