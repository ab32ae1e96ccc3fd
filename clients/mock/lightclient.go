package mock

import (
	"encoding/json"

	"github.com/hyperledger-labs/yui-relay-core/clients"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

// LightClient is the mock client type
type LightClient struct{}

var _ clients.LightClient = LightClient{}

func (LightClient) ClientType() string {
	return ClientType
}

func (LightClient) StateCodec() store.StateCodec {
	return Codec{}
}

func (LightClient) NewVerifier(reader clients.StateReader, _ core.HostClock) core.HeaderVerifier {
	return NewVerifier(reader)
}

func (LightClient) DecodeClientState(bz []byte) (core.ClientState, error) {
	return Codec{}.UnmarshalClientState(bz)
}

func (LightClient) DecodeConsensusState(bz []byte) (core.ConsensusState, error) {
	return Codec{}.UnmarshalConsensusState(bz)
}

func (LightClient) DecodeHeader(bz []byte) (core.ClientHeader, error) {
	var h Header
	if err := json.Unmarshal(bz, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
