// Package mock implements a light client whose headers are trusted as long as they are consistent.
// It is paired with the mock prover and is meant for tests and local setups.
package mock

import (
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	mocktypes "github.com/datachainlab/ibc-mock-client/modules/light-clients/xx-mock/types"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

const ClientType = "xx-mock"

// Header is the header type accepted by the mock client
type Header = mocktypes.Header

// NewHeader returns a header at `height` with the block time `timestamp`
func NewHeader(height clienttypes.Height, timestamp time.Time) *Header {
	return &Header{
		Height:    height,
		Timestamp: uint64(timestamp.UnixNano()),
	}
}

type ClientState struct {
	LatestHeight   clienttypes.Height `json:"latest_height"`
	TrustingPeriod time.Duration      `json:"trusting_period"`
	Frozen         bool               `json:"frozen"`
}

var _ core.ClientState = (*ClientState)(nil)

func NewClientState(latestHeight clienttypes.Height, trustingPeriod time.Duration) *ClientState {
	return &ClientState{LatestHeight: latestHeight, TrustingPeriod: trustingPeriod}
}

func (cs *ClientState) ClientType() string {
	return ClientType
}

func (cs *ClientState) IsFrozen() bool {
	return cs.Frozen
}

func (cs *ClientState) GetTrustingPeriod() time.Duration {
	return cs.TrustingPeriod
}

func (cs *ClientState) GetLatestHeight() clienttypes.Height {
	return cs.LatestHeight
}

func (cs ClientState) frozen() *ClientState {
	cs.Frozen = true
	return &cs
}

type ConsensusState struct {
	Timestamp time.Time `json:"timestamp"`
}

var _ core.ConsensusState = (*ConsensusState)(nil)

func NewConsensusState(timestamp time.Time) *ConsensusState {
	return &ConsensusState{Timestamp: timestamp}
}

func (cs *ConsensusState) GetTimestamp() time.Time {
	return cs.Timestamp
}
