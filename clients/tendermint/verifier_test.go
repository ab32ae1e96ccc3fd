package tendermint_test

import (
	"context"
	"testing"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	cmtprotoversion "github.com/cometbft/cometbft/proto/tendermint/version"
	cmttypes "github.com/cometbft/cometbft/types"
	cmtversion "github.com/cometbft/cometbft/version"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-go/v8/modules/core/23-commitment/types"
	ibctm "github.com/cosmos/ibc-go/v8/modules/light-clients/07-tendermint"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-relay-core/clients/tendermint"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

const (
	testChainID  = "ibc-0"
	testClientID = "07-tendermint-0"
	blockTime    = 5 * time.Second
)

type fixedClock time.Time

func (c fixedClock) HostTimestamp() time.Time {
	return time.Time(c)
}

func blockTimestamp(height int64) time.Time {
	return genesisTime.Add(time.Duration(height) * blockTime)
}

type validators struct {
	set     *cmttypes.ValidatorSet
	signers []cmttypes.PrivValidator
}

func newValidators(t *testing.T) validators {
	t.Helper()
	pv := cmttypes.NewMockPV()
	pubKey, err := pv.GetPubKey()
	require.NoError(t, err)
	return validators{
		set:     cmttypes.NewValidatorSet([]*cmttypes.Validator{cmttypes.NewValidator(pubKey, 100)}),
		signers: []cmttypes.PrivValidator{pv},
	}
}

func makeBlockID(hash []byte, partSetSize uint32, partSetHash []byte) cmttypes.BlockID {
	return cmttypes.BlockID{
		Hash:          hash,
		PartSetHeader: cmttypes.PartSetHeader{Total: partSetSize, Hash: partSetHash},
	}
}

// makeHeader returns a header at `height` signed by `vals` that is verified against the consensus state at `trustedHeight`
func makeHeader(t *testing.T, height int64, trustedHeight clienttypes.Height, timestamp time.Time, appHash []byte, vals, trustedVals validators) *tendermint.Header {
	t.Helper()
	tmHeader := cmttypes.Header{
		Version:            cmtprotoversion.Consensus{Block: cmtversion.BlockProtocol, App: 2},
		ChainID:            testChainID,
		Height:             height,
		Time:               timestamp,
		LastBlockID:        makeBlockID(make([]byte, tmhash.Size), 10_000, make([]byte, tmhash.Size)),
		LastCommitHash:     tmhash.Sum([]byte("last_commit_hash")),
		DataHash:           tmhash.Sum([]byte("data_hash")),
		ValidatorsHash:     vals.set.Hash(),
		NextValidatorsHash: vals.set.Hash(),
		ConsensusHash:      tmhash.Sum([]byte("consensus_hash")),
		AppHash:            appHash,
		LastResultsHash:    tmhash.Sum([]byte("last_results_hash")),
		EvidenceHash:       tmhash.Sum([]byte("evidence_hash")),
		ProposerAddress:    vals.set.Proposer.Address,
	}
	blockID := makeBlockID(tmHeader.Hash(), 3, tmhash.Sum([]byte("part_set")))
	voteSet := cmttypes.NewVoteSet(testChainID, height, 1, cmtproto.PrecommitType, vals.set)
	extCommit, err := cmttypes.MakeExtCommit(blockID, height, 1, voteSet, vals.signers, timestamp, false)
	require.NoError(t, err)

	valSet, err := vals.set.ToProto()
	require.NoError(t, err)
	trusted, err := trustedVals.set.ToProto()
	require.NoError(t, err)
	return &tendermint.Header{
		SignedHeader: &cmtproto.SignedHeader{
			Header: tmHeader.ToProto(),
			Commit: extCommit.ToCommit().ToProto(),
		},
		ValidatorSet:      valSet,
		TrustedHeight:     trustedHeight,
		TrustedValidators: trusted,
	}
}

// newTestVerifier returns a verifier of a client with consensus states at heights 5 and 10
func newTestVerifier(t *testing.T, vals validators) (*tendermint.Verifier, *tendermint.ClientState) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemStore()
	cs := testClientState()
	require.NoError(t, st.SetClientState(ctx, testClientID, cs))
	for _, h := range []int64{5, 10} {
		cons := ibctm.NewConsensusState(blockTimestamp(h), commitmenttypes.NewMerkleRoot([]byte("app")), vals.set.Hash())
		require.NoError(t, st.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, uint64(h)), &tendermint.ConsensusState{ConsensusState: cons}))
	}
	return tendermint.NewVerifier(st, fixedClock(genesisTime.Add(2*time.Minute))), cs
}

func TestVerifierUpdate(t *testing.T) {
	vals := newValidators(t)
	v, cs := newTestVerifier(t, vals)

	header := makeHeader(t, 11, clienttypes.NewHeight(0, 10), blockTimestamp(11), []byte("app-11"), vals, vals)
	newCs, cons, err := v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs, header)
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())
	require.Equal(t, clienttypes.NewHeight(0, 11), newCs.GetLatestHeight())
	require.True(t, cons.GetTimestamp().Equal(blockTimestamp(11)))
	require.Equal(t, []byte("app-11"), cons.(*tendermint.ConsensusState).Root.GetHash())
	// the input is not mutated
	require.Equal(t, clienttypes.NewHeight(0, 10), cs.GetLatestHeight())
}

func TestVerifierPastHeight(t *testing.T) {
	vals := newValidators(t)
	v, cs := newTestVerifier(t, vals)

	header := makeHeader(t, 7, clienttypes.NewHeight(0, 5), blockTimestamp(7), []byte("app"), vals, vals)
	newCs, _, err := v.CheckHeaderAndUpdateState(context.Background(), testClientID, cs, header)
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())
	require.Equal(t, clienttypes.NewHeight(0, 10), newCs.GetLatestHeight())
}

func TestVerifierConflictingHeader(t *testing.T) {
	vals := newValidators(t)
	v, cs := newTestVerifier(t, vals)
	ctx := context.Background()

	header := makeHeader(t, 10, clienttypes.NewHeight(0, 5), blockTimestamp(10), []byte("app"), vals, vals)
	newCs, _, err := v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
	require.NoError(t, err)
	require.False(t, newCs.IsFrozen())

	header = makeHeader(t, 10, clienttypes.NewHeight(0, 5), blockTimestamp(10), []byte("forked"), vals, vals)
	newCs, _, err = v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
	require.NoError(t, err)
	require.True(t, newCs.IsFrozen())
	require.False(t, cs.IsFrozen())
}

func TestVerifierTimeNotMonotonic(t *testing.T) {
	vals := newValidators(t)
	v, cs := newTestVerifier(t, vals)
	ctx := context.Background()

	for name, header := range map[string]*tendermint.Header{
		"not after latest": makeHeader(t, 12, clienttypes.NewHeight(0, 5), blockTimestamp(10), []byte("app"), vals, vals),
		"not before next":  makeHeader(t, 7, clienttypes.NewHeight(0, 5), blockTimestamp(10).Add(time.Second), []byte("app"), vals, vals),
	} {
		t.Run(name, func(t *testing.T) {
			newCs, _, err := v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
			require.NoError(t, err)
			require.True(t, newCs.IsFrozen())
		})
	}
}

func TestVerifierUntrustedValidators(t *testing.T) {
	vals, others := newValidators(t), newValidators(t)
	v, cs := newTestVerifier(t, vals)
	ctx := context.Background()

	// the signers are not the validators of the trusted consensus state
	header := makeHeader(t, 11, clienttypes.NewHeight(0, 10), blockTimestamp(11), []byte("app"), others, vals)
	_, _, err := v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
	require.ErrorIs(t, err, core.ErrInvalidClientHeader)

	header = makeHeader(t, 12, clienttypes.NewHeight(0, 10), blockTimestamp(12), []byte("app"), others, others)
	_, _, err = v.CheckHeaderAndUpdateState(ctx, testClientID, cs, header)
	require.ErrorIs(t, err, core.ErrInvalidClientHeader)

	_, _, err = v.CheckHeaderAndUpdateState(ctx, testClientID, cs,
		makeHeader(t, 12, clienttypes.NewHeight(0, 8), blockTimestamp(12), []byte("app"), vals, vals))
	require.ErrorIs(t, err, core.ErrConsensusStateNotFound)
}
