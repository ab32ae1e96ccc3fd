// Package tendermint adapts the 07-tendermint light client of ibc-go to the update-client state machine.
package tendermint

import (
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	ibctm "github.com/cosmos/ibc-go/v8/modules/light-clients/07-tendermint"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

const ClientType = ibcexported.Tendermint

// ClientState wraps the 07-tendermint client state
type ClientState struct {
	*ibctm.ClientState
}

var _ core.ClientState = (*ClientState)(nil)

func (cs *ClientState) ClientType() string {
	return ClientType
}

func (cs *ClientState) IsFrozen() bool {
	return !cs.FrozenHeight.IsZero()
}

func (cs *ClientState) GetTrustingPeriod() time.Duration {
	return cs.TrustingPeriod
}

func (cs *ClientState) GetLatestHeight() clienttypes.Height {
	return cs.LatestHeight
}

func (cs *ClientState) frozen() *ClientState {
	inner := *cs.ClientState
	inner.FrozenHeight = ibctm.FrozenHeight
	return &ClientState{&inner}
}

func (cs *ClientState) withLatestHeight(height clienttypes.Height) *ClientState {
	inner := *cs.ClientState
	if height.GT(inner.LatestHeight) {
		inner.LatestHeight = height
	}
	return &ClientState{&inner}
}

// ConsensusState wraps the 07-tendermint consensus state
type ConsensusState struct {
	*ibctm.ConsensusState
}

var _ core.ConsensusState = (*ConsensusState)(nil)

func (cs *ConsensusState) GetTimestamp() time.Time {
	return cs.Timestamp
}

// Header is the header type accepted by the tendermint client
type Header = ibctm.Header
