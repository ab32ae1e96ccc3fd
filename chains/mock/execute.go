package mock

import (
	"bytes"
	"context"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/hyperledger-labs/yui-relay-core/core"
	provermock "github.com/hyperledger-labs/yui-relay-core/provers/mock"
)

// successAck is the acknowledgement written for every received packet
var successAck = chantypes.NewResultAcknowledgement([]byte{1}).Acknowledgement()

// execute applies `msg` to `st`, the state of the block at `height`.
// A message that has no effect on the state, such as the receipt of a packet
// already received, succeeds without events.
func (c *Chain) execute(ctx context.Context, st *state, height clienttypes.Height, msg sdk.Msg) ([]core.MsgEventLog, error) {
	switch msg := msg.(type) {
	case *clienttypes.MsgUpdateClient:
		return c.updateClient(ctx, msg)
	case *chantypes.MsgRecvPacket:
		return c.recvPacket(ctx, st, height, msg)
	case *chantypes.MsgAcknowledgement:
		return c.acknowledgePacket(ctx, st, msg)
	case *chantypes.MsgTimeout:
		return c.timeoutPacket(ctx, st, msg)
	default:
		return nil, fmt.Errorf("unsupported message: %s", sdk.MsgTypeURL(msg))
	}
}

func (c *Chain) updateClient(ctx context.Context, msg *clienttypes.MsgUpdateClient) ([]core.MsgEventLog, error) {
	clientMsg, err := clienttypes.UnpackClientMessage(msg.ClientMessage)
	if err != nil {
		return nil, err
	}
	header, ok := clientMsg.(core.ClientHeader)
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidClientHeader, "unexpected client message: %T", clientMsg)
	}
	if err := c.clients.HandleUpdate(ctx, msg.ClientId, header); err != nil {
		return nil, err
	}
	h := header.GetHeight()
	return []core.MsgEventLog{
		&core.EventUpdateClient{
			ClientID:        msg.ClientId,
			ConsensusHeight: clienttypes.NewHeight(h.GetRevisionNumber(), h.GetRevisionHeight()),
		},
	}, nil
}

func (c *Chain) recvPacket(ctx context.Context, st *state, height clienttypes.Height, msg *chantypes.MsgRecvPacket) ([]core.MsgEventLog, error) {
	p := msg.Packet
	if err := c.checkChannel(st, p.DestinationPort, p.DestinationChannel); err != nil {
		return nil, err
	}
	if (!p.TimeoutHeight.IsZero() && height.GTE(p.TimeoutHeight)) ||
		(p.TimeoutTimestamp != 0 && uint64(st.timestamp.UnixNano()) >= p.TimeoutTimestamp) {
		return nil, fmt.Errorf("packet %d has timed out at %s", p.Sequence, height)
	}

	switch c.path.ChannelOrder() {
	case chantypes.ORDERED:
		if p.Sequence < st.nextSequenceRecv {
			return nil, nil
		}
		if p.Sequence > st.nextSequenceRecv {
			return nil, fmt.Errorf("packet sequence %d does not match the next sequence receive %d", p.Sequence, st.nextSequenceRecv)
		}
	default:
		if st.received(p.Sequence) {
			return nil, nil
		}
	}

	path := host.PacketCommitmentPath(p.SourcePort, p.SourceChannel, p.Sequence)
	if err := c.verifyMembership(ctx, msg.ProofHeight, path, chantypes.CommitPacket(c.codec, p), msg.ProofCommitment); err != nil {
		return nil, err
	}

	st.receipts[p.Sequence] = struct{}{}
	if c.path.ChannelOrder() == chantypes.ORDERED {
		st.nextSequenceRecv++
	}
	st.acks[p.Sequence] = &core.PacketInfo{Packet: p, Acknowledgement: successAck, EventHeight: height}

	return []core.MsgEventLog{
		&core.EventRecvPacket{
			Sequence:         p.Sequence,
			DstPort:          p.DestinationPort,
			DstChannel:       p.DestinationChannel,
			TimeoutHeight:    p.TimeoutHeight,
			TimeoutTimestamp: time.Unix(0, int64(p.TimeoutTimestamp)),
			Data:             p.Data,
		},
		&core.EventWriteAcknowledgement{
			Sequence:        p.Sequence,
			DstPort:         p.DestinationPort,
			DstChannel:      p.DestinationChannel,
			Acknowledgement: successAck,
		},
	}, nil
}

func (c *Chain) acknowledgePacket(ctx context.Context, st *state, msg *chantypes.MsgAcknowledgement) ([]core.MsgEventLog, error) {
	p := msg.Packet
	if err := c.checkChannel(st, p.SourcePort, p.SourceChannel); err != nil {
		return nil, err
	}
	found, err := c.checkCommitment(st, p)
	if err != nil || !found {
		return nil, err
	}

	path := host.PacketAcknowledgementPath(p.DestinationPort, p.DestinationChannel, p.Sequence)
	if err := c.verifyMembership(ctx, msg.ProofHeight, path, chantypes.CommitAcknowledgement(msg.Acknowledgement), msg.ProofAcked); err != nil {
		return nil, err
	}
	delete(st.commitments, p.Sequence)

	return []core.MsgEventLog{
		&core.EventAcknowledgePacket{
			Sequence:         p.Sequence,
			SrcPort:          p.SourcePort,
			SrcChannel:       p.SourceChannel,
			TimeoutHeight:    p.TimeoutHeight,
			TimeoutTimestamp: time.Unix(0, int64(p.TimeoutTimestamp)),
		},
	}, nil
}

func (c *Chain) timeoutPacket(ctx context.Context, st *state, msg *chantypes.MsgTimeout) ([]core.MsgEventLog, error) {
	p := msg.Packet
	if err := c.checkChannel(st, p.SourcePort, p.SourceChannel); err != nil {
		return nil, err
	}
	found, err := c.checkCommitment(st, p)
	if err != nil || !found {
		return nil, err
	}

	cons, err := c.trustedConsensusState(ctx, msg.ProofHeight)
	if err != nil {
		return nil, err
	}
	if !(!p.TimeoutHeight.IsZero() && msg.ProofHeight.GTE(p.TimeoutHeight)) &&
		!(p.TimeoutTimestamp != 0 && uint64(cons.GetTimestamp().UnixNano()) >= p.TimeoutTimestamp) {
		return nil, errorsmod.Wrapf(core.ErrTimeoutNotReached, "packet %d at proof height %s", p.Sequence, msg.ProofHeight)
	}

	switch c.path.ChannelOrder() {
	case chantypes.ORDERED:
		if msg.NextSequenceRecv > p.Sequence {
			return nil, errorsmod.Wrapf(core.ErrPacketAlreadyReceived, "packet %d (next sequence receive %d)", p.Sequence, msg.NextSequenceRecv)
		}
		path := host.NextSequenceRecvPath(p.DestinationPort, p.DestinationChannel)
		if err := c.verifyMembership(ctx, msg.ProofHeight, path, sdk.Uint64ToBigEndian(msg.NextSequenceRecv), msg.ProofUnreceived); err != nil {
			return nil, err
		}
		st.closed = true
	default:
		path := host.PacketReceiptPath(p.DestinationPort, p.DestinationChannel, p.Sequence)
		if err := c.verifyMembership(ctx, msg.ProofHeight, path, nil, msg.ProofUnreceived); err != nil {
			return nil, err
		}
	}
	delete(st.commitments, p.Sequence)

	return []core.MsgEventLog{
		&core.EventTimeoutPacket{
			Sequence:   p.Sequence,
			SrcPort:    p.SourcePort,
			SrcChannel: p.SourceChannel,
		},
	}, nil
}

func (c *Chain) checkChannel(st *state, portID, channelID string) error {
	if c.path == nil {
		return fmt.Errorf("relay info is not set on %s", c.config.ChainID)
	}
	if portID != c.path.PortID || channelID != c.path.ChannelID {
		return fmt.Errorf("unknown channel %s/%s on %s", portID, channelID, c.config.ChainID)
	}
	if st.closed {
		return fmt.Errorf("channel %s/%s is closed", portID, channelID)
	}
	return nil
}

// checkCommitment returns false if the commitment of `p` has been cleared
func (c *Chain) checkCommitment(st *state, p chantypes.Packet) (bool, error) {
	commitment, ok := st.commitments[p.Sequence]
	if !ok {
		return false, nil
	}
	if !bytes.Equal(commitment, chantypes.CommitPacket(c.codec, p)) {
		return false, fmt.Errorf("packet %d does not match its commitment", p.Sequence)
	}
	return true, nil
}

// trustedConsensusState returns the consensus state of the counterparty at `height`
// trusted by the client of the path end
func (c *Chain) trustedConsensusState(ctx context.Context, height clienttypes.Height) (core.ConsensusState, error) {
	clientID := c.path.ClientID
	cs, err := c.clientStore.GetClientState(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if cs.IsFrozen() {
		return nil, errorsmod.Wrap(core.ErrClientIsFrozen, clientID)
	}
	cons, found, err := c.clientStore.GetConsensusState(ctx, clientID, height)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorsmod.Wrapf(core.ErrConsensusStateNotFound, "%s at %s", clientID, height)
	}
	return cons, nil
}

func (c *Chain) verifyMembership(ctx context.Context, height clienttypes.Height, path string, value, proof []byte) error {
	if _, err := c.trustedConsensusState(ctx, height); err != nil {
		return err
	}
	if !provermock.VerifyProof(path, value, proof) {
		return fmt.Errorf("invalid proof for %s at %s", path, height)
	}
	return nil
}
