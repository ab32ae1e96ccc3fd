package mock_test

import (
	"context"
	"testing"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-relay-core/clients/mock"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

const testClientID = "xx-mock-0"

var genesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestVerifier(t *testing.T) (*mock.Verifier, *mock.ClientState) {
	ctx := context.Background()
	st := store.NewMemStore()
	cs := mock.NewClientState(clienttypes.NewHeight(0, 10), time.Hour)
	require.NoError(t, st.SetClientState(ctx, testClientID, cs))
	require.NoError(t, st.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, 5), mock.NewConsensusState(genesisTime.Add(5*time.Second))))
	require.NoError(t, st.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, 10), mock.NewConsensusState(genesisTime.Add(10*time.Second))))
	return mock.NewVerifier(st), cs
}

func TestVerifierNewHeight(t *testing.T) {
	v, cs := newTestVerifier(t)

	newCs, cons, err := v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs,
		mock.NewHeader(clienttypes.NewHeight(0, 12), genesisTime.Add(12*time.Second)))
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())
	require.Equal(t, clienttypes.NewHeight(0, 12), newCs.GetLatestHeight())
	require.True(t, cons.GetTimestamp().Equal(genesisTime.Add(12*time.Second)))
	// the input is not mutated
	require.Equal(t, clienttypes.NewHeight(0, 10), cs.GetLatestHeight())
}

func TestVerifierPastHeight(t *testing.T) {
	v, cs := newTestVerifier(t)

	newCs, cons, err := v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs,
		mock.NewHeader(clienttypes.NewHeight(0, 7), genesisTime.Add(7*time.Second)))
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())
	require.Equal(t, clienttypes.NewHeight(0, 10), newCs.GetLatestHeight())
	require.True(t, cons.GetTimestamp().Equal(genesisTime.Add(7*time.Second)))
}

func TestVerifierKnownHeight(t *testing.T) {
	v, cs := newTestVerifier(t)

	newCs, _, err := v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs,
		mock.NewHeader(clienttypes.NewHeight(0, 5), genesisTime.Add(5*time.Second)))
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())

	newCs, _, err = v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs,
		mock.NewHeader(clienttypes.NewHeight(0, 5), genesisTime.Add(6*time.Second)))
	require.NoError(t, err)
	require.True(t, newCs.IsFrozen())
}

func TestVerifierTimeNotAdvancing(t *testing.T) {
	v, cs := newTestVerifier(t)

	newCs, _, err := v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs,
		mock.NewHeader(clienttypes.NewHeight(0, 11), genesisTime.Add(10*time.Second)))
	require.NoError(t, err)
	require.True(t, newCs.IsFrozen())
}

func TestVerifierPastHeightOutOfOrder(t *testing.T) {
	v, cs := newTestVerifier(t)
	ctx := context.Background()

	for name, header := range map[string]*mock.Header{
		"before previous": mock.NewHeader(clienttypes.NewHeight(0, 7), genesisTime.Add(4*time.Second)),
		"equal previous":  mock.NewHeader(clienttypes.NewHeight(0, 7), genesisTime.Add(5*time.Second)),
		"equal next":      mock.NewHeader(clienttypes.NewHeight(0, 7), genesisTime.Add(10*time.Second)),
		"after next":      mock.NewHeader(clienttypes.NewHeight(0, 7), genesisTime.Add(11*time.Second)),
		"below lowest":    mock.NewHeader(clienttypes.NewHeight(0, 3), genesisTime.Add(6*time.Second)),
	} {
		t.Run(name, func(t *testing.T) {
			newCs, _, err := v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
			require.NoError(t, err)
			require.True(t, newCs.IsFrozen())
		})
	}

	newCs, _, err := v.CheckHeaderAndUpdateState(ctx, testClientID, cs,
		mock.NewHeader(clienttypes.NewHeight(0, 3), genesisTime.Add(3*time.Second)))
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())
}

func TestVerifierInvalidHeader(t *testing.T) {
	v, cs := newTestVerifier(t)
	ctx := context.Background()

	for name, header := range map[string]*mock.Header{
		"zero height":       mock.NewHeader(clienttypes.ZeroHeight(), genesisTime.Add(time.Minute)),
		"zero timestamp":    {Height: clienttypes.NewHeight(0, 11)},
		"revision mismatch": mock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(time.Minute)),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
			require.ErrorIs(t, err, core.ErrInvalidClientHeader)
		})
	}
}

func TestCodec(t *testing.T) {
	c := mock.Codec{}

	cs := mock.NewClientState(clienttypes.NewHeight(2, 10), 90*time.Second)
	bz, err := c.MarshalClientState(cs)
	require.NoError(t, err)
	decoded, err := mock.LightClient{}.DecodeClientState(bz)
	require.NoError(t, err)
	require.Equal(t, cs, decoded)

	cons := mock.NewConsensusState(genesisTime)
	bz, err = c.MarshalConsensusState(cons)
	require.NoError(t, err)
	decodedCons, err := c.UnmarshalConsensusState(bz)
	require.NoError(t, err)
	require.True(t, decodedCons.GetTimestamp().Equal(genesisTime))

	_, err = c.MarshalConsensusState(nil)
	require.ErrorIs(t, err, core.ErrInvalidConsensusStateType)
}
