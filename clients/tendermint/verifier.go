package tendermint

import (
	"bytes"
	"context"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cometbft/cometbft/light"
	cmttypes "github.com/cometbft/cometbft/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibctm "github.com/cosmos/ibc-go/v8/modules/light-clients/07-tendermint"

	"github.com/hyperledger-labs/yui-relay-core/clients"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

// Verifier verifies headers with the cometbft light client verification against a trusted consensus state.
//
// The client is frozen if a verified header conflicts with the consensus state stored at its height,
// or if its time is not between the times of its neighbouring consensus states.
type Verifier struct {
	reader clients.StateReader
	clock  core.HostClock
}

var _ core.HeaderVerifier = (*Verifier)(nil)

func NewVerifier(reader clients.StateReader, clock core.HostClock) *Verifier {
	return &Verifier{reader: reader, clock: clock}
}

func (v *Verifier) CheckHeaderAndUpdateState(ctx context.Context, clientID string, clientState core.ClientState, header core.ClientHeader) (core.ClientState, core.ConsensusState, error) {
	cs, ok := clientState.(*ClientState)
	if !ok {
		return nil, nil, errorsmod.Wrapf(core.ErrInvalidClientStateType, "expected %T, got %T", &ClientState{}, clientState)
	}
	h, ok := header.(*Header)
	if !ok {
		return nil, nil, errorsmod.Wrapf(core.ErrInvalidClientHeader, "expected %T, got %T", &Header{}, header)
	}
	if err := h.ValidateBasic(); err != nil {
		return nil, nil, errorsmod.Wrap(core.ErrInvalidClientHeader, err.Error())
	}

	trusted, err := v.consensusState(ctx, clientID, h.TrustedHeight)
	if err != nil {
		return nil, nil, err
	} else if trusted == nil {
		return nil, nil, errorsmod.Wrapf(core.ErrConsensusStateNotFound, "%s at trusted height %s", clientID, h.TrustedHeight)
	}
	if err := verifyHeader(cs.ClientState, trusted.ConsensusState, h, v.clock.HostTimestamp()); err != nil {
		return nil, nil, errorsmod.Wrap(core.ErrInvalidClientHeader, err.Error())
	}

	height := clienttypes.NewHeight(h.GetHeight().GetRevisionNumber(), h.GetHeight().GetRevisionHeight())
	cons := &ConsensusState{h.ConsensusState()}

	existing, err := v.consensusState(ctx, clientID, height)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		if !sameConsensusState(existing.ConsensusState, cons.ConsensusState) {
			return cs.frozen(), cons, nil
		}
		return cs, existing, nil
	}
	monotonic, err := clients.MonotonicTime(ctx, v.reader, clientID, height, cons.Timestamp)
	if err != nil {
		return nil, nil, err
	} else if !monotonic {
		return cs.frozen(), cons, nil
	}
	return cs.withLatestHeight(height), cons, nil
}

// consensusState returns nil if no consensus state is stored at `height`
func (v *Verifier) consensusState(ctx context.Context, clientID string, height clienttypes.Height) (*ConsensusState, error) {
	cons, found, err := v.reader.GetConsensusState(ctx, clientID, height)
	if err != nil || !found {
		return nil, err
	}
	tmCons, ok := cons.(*ConsensusState)
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidConsensusStateType, "expected %T, got %T", &ConsensusState{}, cons)
	}
	return tmCons, nil
}

func sameConsensusState(a, b *ibctm.ConsensusState) bool {
	return a.Timestamp.Equal(b.Timestamp) &&
		bytes.Equal(a.Root.GetHash(), b.Root.GetHash()) &&
		bytes.Equal(a.NextValidatorsHash, b.NextValidatorsHash)
}

// verifyHeader checks that `header` is signed by enough of the validators trusted by `trusted`
func verifyHeader(cs *ibctm.ClientState, trusted *ibctm.ConsensusState, header *Header, now time.Time) error {
	if !header.GetHeight().GT(header.TrustedHeight) {
		return fmt.Errorf("header height %s must be greater than trusted height %s", header.GetHeight(), header.TrustedHeight)
	}

	trustedVals, err := cmttypes.ValidatorSetFromProto(header.TrustedValidators)
	if err != nil {
		return fmt.Errorf("invalid trusted validator set: %w", err)
	}
	if !bytes.Equal(trustedVals.Hash(), trusted.NextValidatorsHash) {
		return fmt.Errorf("trusted validators %X do not match the next validators hash %X of the trusted consensus state", trustedVals.Hash(), trusted.NextValidatorsHash)
	}
	untrustedHeader, err := cmttypes.SignedHeaderFromProto(header.SignedHeader)
	if err != nil {
		return fmt.Errorf("invalid signed header: %w", err)
	}
	untrustedVals, err := cmttypes.ValidatorSetFromProto(header.ValidatorSet)
	if err != nil {
		return fmt.Errorf("invalid validator set: %w", err)
	}

	chainID := cs.GetChainID()
	if clienttypes.IsRevisionFormat(chainID) {
		if chainID, err = clienttypes.SetRevisionNumber(chainID, header.GetHeight().GetRevisionNumber()); err != nil {
			return err
		}
	}
	// only the fields used by the verification are set
	trustedHeader := cmttypes.SignedHeader{
		Header: &cmttypes.Header{
			ChainID:            chainID,
			Height:             int64(header.TrustedHeight.RevisionHeight),
			Time:               trusted.Timestamp,
			NextValidatorsHash: trusted.NextValidatorsHash,
		},
	}

	return light.Verify(
		&trustedHeader, trustedVals,
		untrustedHeader, untrustedVals,
		cs.TrustingPeriod, now, cs.MaxClockDrift,
		cs.TrustLevel.ToTendermint(),
	)
}
