package mock

import (
	"maps"
	"time"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

// state is the channel state of a block
type state struct {
	timestamp time.Time

	// packets sent on this chain whose commitment has not been cleared
	commitments map[uint64][]byte
	sent        map[uint64]*core.PacketInfo

	// packets received on this chain and their acknowledgements
	receipts map[uint64]struct{}
	acks     map[uint64]*core.PacketInfo

	nextSequenceSend uint64
	nextSequenceRecv uint64
	closed           bool
}

func newState(timestamp time.Time) *state {
	return &state{
		timestamp:        timestamp,
		commitments:      make(map[uint64][]byte),
		sent:             make(map[uint64]*core.PacketInfo),
		receipts:         make(map[uint64]struct{}),
		acks:             make(map[uint64]*core.PacketInfo),
		nextSequenceSend: 1,
		nextSequenceRecv: 1,
	}
}

// next returns a copy of the state for the next block
func (st *state) next(timestamp time.Time) *state {
	return &state{
		timestamp:        timestamp,
		commitments:      maps.Clone(st.commitments),
		sent:             maps.Clone(st.sent),
		receipts:         maps.Clone(st.receipts),
		acks:             maps.Clone(st.acks),
		nextSequenceSend: st.nextSequenceSend,
		nextSequenceRecv: st.nextSequenceRecv,
		closed:           st.closed,
	}
}

func (st *state) received(seq uint64) bool {
	_, ok := st.receipts[seq]
	return ok
}
