package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-relay-core/clients/mock"
	mockmodule "github.com/hyperledger-labs/yui-relay-core/clients/mock/module"
	"github.com/hyperledger-labs/yui-relay-core/config"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	bz, err := json.Marshal(v)
	require.NoError(t, err)
	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, bz, 0600))
	return file
}

func TestClientCmd(t *testing.T) {
	home := t.TempDir()
	cfg := config.DefaultConfig(home)
	ctx := config.NewContext([]config.ModuleI{mockmodule.Module{}}, &cfg)

	// the handler checks the trusting period against the system clock
	updatedAt := time.Now().Add(-time.Minute).UTC()
	clientState := writeJSON(t, home, "client-state.json", mock.NewClientState(clienttypes.NewHeight(0, 10), time.Hour))
	consensusState := writeJSON(t, home, "consensus-state.json", mock.NewConsensusState(updatedAt))
	create := func() error {
		_, err := runCmd(t, clientCmd(ctx), "create", "xx-mock-0",
			"--client-type", mock.ClientType,
			"--client-state", clientState,
			"--consensus-state", consensusState,
		)
		return err
	}
	status := func() string {
		out, err := runCmd(t, clientCmd(ctx), "status", "xx-mock-0")
		require.NoError(t, err)
		return strings.TrimSpace(out)
	}

	require.NoError(t, create())
	require.Error(t, create(), "a client can be created only once")
	assert.Equal(t, string(core.Active), status())

	header := writeJSON(t, home, "header.json", mock.NewHeader(clienttypes.NewHeight(0, 11), updatedAt.Add(time.Second)))
	_, err := runCmd(t, clientCmd(ctx), "update", "xx-mock-0", "--header", header)
	require.NoError(t, err)
	assert.Equal(t, string(core.Active), status())

	// a header at the same height with another time is misbehaviour
	conflicting := writeJSON(t, home, "conflicting.json", mock.NewHeader(clienttypes.NewHeight(0, 11), updatedAt.Add(2*time.Second)))
	_, err = runCmd(t, clientCmd(ctx), "update", "xx-mock-0", "--header", conflicting)
	require.NoError(t, err)
	assert.Equal(t, string(core.Frozen), status())

	_, err = runCmd(t, clientCmd(ctx), "update", "xx-mock-0", "--header", header)
	require.ErrorIs(t, err, core.ErrClientIsFrozen)

	_, err = runCmd(t, clientCmd(ctx), "status", "xx-mock-1")
	require.ErrorIs(t, err, core.ErrClientNotFound)
}

func TestClientCreateUnknownType(t *testing.T) {
	home := t.TempDir()
	cfg := config.DefaultConfig(home)
	ctx := config.NewContext([]config.ModuleI{mockmodule.Module{}}, &cfg)

	clientState := writeJSON(t, home, "client-state.json", mock.NewClientState(clienttypes.NewHeight(0, 10), time.Hour))
	consensusState := writeJSON(t, home, "consensus-state.json", mock.NewConsensusState(time.Now()))
	_, err := runCmd(t, clientCmd(ctx), "create", "07-tendermint-0",
		"--client-type", "07-tendermint",
		"--client-state", clientState,
		"--consensus-state", consensusState,
	)
	require.Error(t, err)
}
