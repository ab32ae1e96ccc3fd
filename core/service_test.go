package core_test

import (
	"context"
	"os"
	"testing"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/internal/telemetry"
	"github.com/hyperledger-labs/yui-relay-core/log"
)

func TestMain(m *testing.M) {
	if err := log.InitLoggerWithWriter("debug", "text", os.Stdout, false); err != nil {
		panic(err)
	}
	if err := telemetry.InitializeMetrics(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestServe(t *testing.T) {
	f := newRelayFixture(t, "UNORDERED")
	ctx := context.Background()
	toDst := sendPacket(t, f.src, clienttypes.ZeroHeight(), farTimeout)
	toSrc := sendPacket(t, f.dst, clienttypes.ZeroHeight(), farTimeout)
	timedOut := sendPacket(t, f.src, clienttypes.NewHeight(0, 3), 0)
	f.dst.AdvanceBlocks(1)

	srv := core.NewRelayService(f.relay, f.svcConfig.RelayInterval)

	// the first round delivers the packets and times out the expired one
	require.NoError(t, srv.Serve(ctx))
	assert.Equal(t, []uint64{toDst.Sequence}, f.dst.ReceivedSequences())
	assert.Equal(t, []uint64{toSrc.Sequence}, f.src.ReceivedSequences())
	assert.False(t, hasCommitment(t, f.src, timedOut.Sequence))
	assert.True(t, hasCommitment(t, f.src, toDst.Sequence))

	// the second round relays the acknowledgements
	require.NoError(t, srv.Serve(ctx))
	assert.False(t, hasCommitment(t, f.src, toDst.Sequence))
	assert.False(t, hasCommitment(t, f.dst, toSrc.Sequence))

	// nothing is left to relay
	srcHeight, dstHeight := latestHeight(t, f.src), latestHeight(t, f.dst)
	require.NoError(t, srv.Serve(ctx))
	assert.Equal(t, srcHeight, latestHeight(t, f.src))
	assert.Equal(t, dstHeight, latestHeight(t, f.dst))

	backlog, ok := telemetry.BacklogSizeGauge.Get(core.AttributeKeyChainID.String(f.src.ChainID()))
	require.True(t, ok)
	assert.EqualValues(t, 0, backlog)
}

func TestStartService(t *testing.T) {
	f := newRelayFixture(t, "ORDERED")
	var seqs []uint64
	for range 3 {
		seqs = append(seqs, sendPacket(t, f.src, clienttypes.ZeroHeight(), farTimeout).Sequence)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- core.StartService(ctx, f.srcPC, f.dstPC, f.svcConfig)
	}()

	require.Eventually(t, func() bool {
		for _, seq := range seqs {
			if hasCommitment(t, f.src, seq) {
				return false
			}
		}
		return true
	}, 10*time.Second, 20*time.Millisecond)
	assert.Equal(t, seqs, f.dst.ReceivedSequences())
	assert.False(t, f.src.ChannelClosed())

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}
