package mock

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

// Codec encodes the mock states in JSON
type Codec struct{}

var _ store.StateCodec = Codec{}

func (Codec) MarshalClientState(clientState core.ClientState) ([]byte, error) {
	cs, ok := clientState.(*ClientState)
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidClientStateType, "expected %T, got %T", &ClientState{}, clientState)
	}
	return json.Marshal(cs)
}

func (Codec) UnmarshalClientState(bz []byte) (core.ClientState, error) {
	var cs ClientState
	if err := json.Unmarshal(bz, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (Codec) MarshalConsensusState(consensusState core.ConsensusState) ([]byte, error) {
	cons, ok := consensusState.(*ConsensusState)
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidConsensusStateType, "expected %T, got %T", &ConsensusState{}, consensusState)
	}
	return json.Marshal(cons)
}

func (Codec) UnmarshalConsensusState(bz []byte) (core.ConsensusState, error) {
	var cons ConsensusState
	if err := json.Unmarshal(bz, &cons); err != nil {
		return nil, err
	}
	return &cons, nil
}
