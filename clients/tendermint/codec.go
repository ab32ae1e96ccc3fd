package tendermint

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibctm "github.com/cosmos/ibc-go/v8/modules/light-clients/07-tendermint"

	"github.com/hyperledger-labs/yui-relay-core/clients"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

// Codec encodes the tendermint states in protobuf
type Codec struct {
	cdc *codec.ProtoCodec
}

var _ store.StateCodec = Codec{}

func NewCodec() Codec {
	registry := codectypes.NewInterfaceRegistry()
	clienttypes.RegisterInterfaces(registry)
	ibctm.RegisterInterfaces(registry)
	return Codec{cdc: codec.NewProtoCodec(registry)}
}

func (c Codec) MarshalClientState(clientState core.ClientState) ([]byte, error) {
	cs, ok := clientState.(*ClientState)
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidClientStateType, "expected %T, got %T", &ClientState{}, clientState)
	}
	return c.cdc.Marshal(cs.ClientState)
}

func (c Codec) UnmarshalClientState(bz []byte) (core.ClientState, error) {
	var cs ibctm.ClientState
	if err := c.cdc.Unmarshal(bz, &cs); err != nil {
		return nil, err
	}
	return &ClientState{&cs}, nil
}

func (c Codec) MarshalConsensusState(consensusState core.ConsensusState) ([]byte, error) {
	cons, ok := consensusState.(*ConsensusState)
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidConsensusStateType, "expected %T, got %T", &ConsensusState{}, consensusState)
	}
	return c.cdc.Marshal(cons.ConsensusState)
}

func (c Codec) UnmarshalConsensusState(bz []byte) (core.ConsensusState, error) {
	var cons ibctm.ConsensusState
	if err := c.cdc.Unmarshal(bz, &cons); err != nil {
		return nil, err
	}
	return &ConsensusState{&cons}, nil
}

// LightClient is the tendermint client type
type LightClient struct {
	codec Codec
}

var _ clients.LightClient = LightClient{}

func NewLightClient() LightClient {
	return LightClient{codec: NewCodec()}
}

func (LightClient) ClientType() string {
	return ClientType
}

func (lc LightClient) StateCodec() store.StateCodec {
	return lc.codec
}

func (LightClient) NewVerifier(reader clients.StateReader, clock core.HostClock) core.HeaderVerifier {
	return NewVerifier(reader, clock)
}

func (lc LightClient) DecodeClientState(bz []byte) (core.ClientState, error) {
	var cs ibctm.ClientState
	if err := lc.codec.cdc.UnmarshalJSON(bz, &cs); err != nil {
		return nil, err
	}
	return &ClientState{&cs}, nil
}

func (lc LightClient) DecodeConsensusState(bz []byte) (core.ConsensusState, error) {
	var cons ibctm.ConsensusState
	if err := lc.codec.cdc.UnmarshalJSON(bz, &cons); err != nil {
		return nil, err
	}
	return &ConsensusState{&cons}, nil
}

func (lc LightClient) DecodeHeader(bz []byte) (core.ClientHeader, error) {
	var h Header
	if err := lc.codec.cdc.UnmarshalJSON(bz, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
