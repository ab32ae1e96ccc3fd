package mock

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/hyperledger-labs/yui-relay-core/clients"
	"github.com/hyperledger-labs/yui-relay-core/core"
)

// Verifier accepts any well-formed header and freezes the client on conflicting headers.
//
// A header conflicts with the stored states if a consensus state with another timestamp
// exists at its height, or if its time is not between the times of its neighbouring consensus states.
type Verifier struct {
	reader clients.StateReader
}

var _ core.HeaderVerifier = (*Verifier)(nil)

func NewVerifier(reader clients.StateReader) *Verifier {
	return &Verifier{reader: reader}
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
	if h.Height.IsZero() || h.Timestamp == 0 {
		return nil, nil, errorsmod.Wrap(core.ErrInvalidClientHeader, "height and timestamp must be non-zero")
	}
	if h.Height.RevisionNumber != cs.LatestHeight.RevisionNumber {
		return nil, nil, errorsmod.Wrapf(core.ErrInvalidClientHeader, "revision number mismatch: client=%d, header=%d", cs.LatestHeight.RevisionNumber, h.Height.RevisionNumber)
	}
	cons := NewConsensusState(time.Unix(0, int64(h.Timestamp)))

	existing, found, err := v.reader.GetConsensusState(ctx, clientID, h.Height)
	if err != nil {
		return nil, nil, err
	}
	if found {
		if !existing.GetTimestamp().Equal(cons.Timestamp) {
			return cs.frozen(), cons, nil
		}
		return cs, existing, nil
	}

	monotonic, err := clients.MonotonicTime(ctx, v.reader, clientID, h.Height, cons.Timestamp)
	if err != nil {
		return nil, nil, err
	} else if !monotonic {
		return cs.frozen(), cons, nil
	}
	newCs := *cs
	if h.Height.GT(cs.LatestHeight) {
		newCs.LatestHeight = h.Height
	}
	return &newCs, cons, nil
}
