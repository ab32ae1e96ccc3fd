package core

import (
	"cmp"
	"slices"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// PacketInfo is a packet found on a chain together with the height of its event.
// A sent packet has no Acknowledgement. For a received packet, Acknowledgement is the
// acknowledgement written on receipt and EventHeight is the height of the receipt.
type PacketInfo struct {
	chantypes.Packet
	Acknowledgement []byte             `json:"acknowledgement"`
	EventHeight     clienttypes.Height `json:"event_height"`

	// TimedOut is set when the timeout of the packet has elapsed at the destination height of a relay round
	TimedOut bool `json:"timed_out"`
}

// PacketInfoList is a list of packets in the order their events occurred
type PacketInfoList []*PacketInfo

// Sequences returns the sequences of the packets in list order
func (ps PacketInfoList) Sequences() []uint64 {
	seqs := make([]uint64, 0, len(ps))
	for _, p := range ps {
		seqs = append(seqs, p.Sequence)
	}
	return seqs
}

// Select returns the packets whose sequence is in `seqs`, keeping the list order
func (ps PacketInfoList) Select(seqs []uint64) PacketInfoList {
	keep := make(map[uint64]struct{}, len(seqs))
	for _, seq := range seqs {
		keep[seq] = struct{}{}
	}
	var ret PacketInfoList
	for _, p := range ps {
		if _, ok := keep[p.Sequence]; ok {
			ret = append(ret, p)
		}
	}
	return ret
}

// SortBySequence returns a copy of the list sorted in ascending order of sequence
func (ps PacketInfoList) SortBySequence() PacketInfoList {
	ret := slices.Clone(ps)
	slices.SortStableFunc(ret, func(a, b *PacketInfo) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return ret
}

// RelayPackets holds the unrelayed packets of both directions
type RelayPackets struct {
	Src PacketInfoList `json:"src"`
	Dst PacketInfoList `json:"dst"`
}
