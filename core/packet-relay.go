package core

import (
	"context"
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hyperledger-labs/yui-relay-core/internal/telemetry"
)

// ChainTarget selects the side of a Relay that receives messages
type ChainTarget int

const (
	SrcTarget ChainTarget = iota
	DstTarget
)

func (t ChainTarget) String() string {
	switch t {
	case SrcTarget:
		return "src"
	case DstTarget:
		return "dst"
	default:
		return fmt.Sprintf("ChainTarget(%d)", int(t))
	}
}

// Counterparty returns the opposite side
func (t ChainTarget) Counterparty() ChainTarget {
	if t == SrcTarget {
		return DstTarget
	}
	return SrcTarget
}

// Relay relays packets sent on `src` to `dst`.
// Messages for each chain are submitted through the messages channel of the chain.
type Relay struct {
	src, dst             *ProvableChain
	srcSender, dstSender *BatchSender
	headers              *SyncHeaders
}

// NewRelay returns a new Relay
func NewRelay(src, dst *ProvableChain, srcSender, dstSender *BatchSender) *Relay {
	return &Relay{src: src, dst: dst, srcSender: srcSender, dstSender: dstSender, headers: NewSyncHeaders()}
}

// Reverse returns a Relay that relays packets sent on `dst` to `src`.
// The returned Relay shares the synced headers with `r`.
func (r *Relay) Reverse() *Relay {
	return &Relay{src: r.dst, dst: r.src, srcSender: r.dstSender, dstSender: r.srcSender, headers: r.headers}
}

// SyncHeaders fetches the latest finalized headers of src and dst and returns their heights.
// The update-client messages for proofs at these heights carry the synced headers.
func (r *Relay) SyncHeaders(ctx context.Context) (srcHeight, dstHeight ibcexported.Height, err error) {
	if err := r.headers.Updates(ctx, r.src, r.dst); err != nil {
		return nil, nil, err
	}
	return r.headers.GetHeight(r.src.ChainID()), r.headers.GetHeight(r.dst.ChainID()), nil
}

// Chain returns the chain selected by `target`
func (r *Relay) Chain(target ChainTarget) *ProvableChain {
	if target == SrcTarget {
		return r.src
	}
	return r.dst
}

func (r *Relay) sender(target ChainTarget) *BatchSender {
	if target == SrcTarget {
		return r.srcSender
	}
	return r.dstSender
}

// Submit sends `msgs` as one batch to the chain selected by `target` and waits for the outcome.
// It returns the events emitted by each message.
func (r *Relay) Submit(ctx context.Context, target ChainTarget, msgs []sdk.Msg) ([][]MsgEventLog, error) {
	return SendAndWait(ctx, r.sender(target), msgs)
}

// UpdateClientMsgs returns the messages that give the client on the chain selected by `target`
// a consensus state of its counterparty at exactly `proofHeight`.
// No message is returned if the client already holds a consensus state at `proofHeight`.
// It fails with ErrHeightNotFinalized if `proofHeight` is not finalized on the counterparty.
func (r *Relay) UpdateClientMsgs(ctx context.Context, target ChainTarget, proofHeight ibcexported.Height) ([]sdk.Msg, error) {
	chain, counterparty := r.Chain(target), r.Chain(target.Counterparty())

	latest, err := chain.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	if _, found, err := chain.QueryClientConsensusState(NewQueryContext(ctx, latest), proofHeight); err != nil {
		return nil, err
	} else if found {
		return nil, nil
	}

	header, err := r.headers.headerAt(ctx, counterparty, proofHeight)
	if err != nil {
		return nil, err
	}
	headers, err := counterparty.SetupHeadersForUpdate(ctx, chain, header)
	if err != nil {
		return nil, err
	}
	signer, err := chain.GetAddress()
	if err != nil {
		return nil, err
	}
	return chain.Path().UpdateClients(headers, signer)
}

// submitWithUpdate prepends the update-client messages for `proofHeight` to `msgs`, submits
// them to `target`, and returns the events of `msgs` only.
func (r *Relay) submitWithUpdate(ctx context.Context, target ChainTarget, proofHeight ibcexported.Height, msgs []sdk.Msg) ([][]MsgEventLog, error) {
	updates, err := r.UpdateClientMsgs(ctx, target, proofHeight)
	if err != nil {
		return nil, err
	}
	events, err := r.Submit(ctx, target, append(updates, msgs...))
	if err != nil {
		return nil, err
	}
	return events[len(updates):], nil
}

// RelayPacket delivers `packet` to dst with a proof of its commitment on src at `srcHeight`.
// `srcHeight` must not be higher than the latest finalized height of src.
// It returns the events emitted by MsgRecvPacket, which include the written acknowledgement.
func (r *Relay) RelayPacket(ctx context.Context, srcHeight ibcexported.Height, packet chantypes.Packet) ([]MsgEventLog, error) {
	ctx, span := r.startSpan(ctx, "Relay.RelayPacket", packet)
	defer span.End()

	msg, err := r.recvPacketMsg(ctx, srcHeight, packet)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	events, err := r.submitWithUpdate(ctx, DstTarget, srcHeight, []sdk.Msg{msg})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	telemetry.RelayedPacketsCounter.Add(ctx, 1, telemetry.RelayAttributes(r.dst.ChainID(), "recv"))
	return events[0], nil
}

// RelayAckPacket delivers the acknowledgement `ack` written on dst for `packet` back to src,
// with a proof on dst at `dstHeight`.
func (r *Relay) RelayAckPacket(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet, ack []byte) ([]MsgEventLog, error) {
	ctx, span := r.startSpan(ctx, "Relay.RelayAckPacket", packet)
	defer span.End()

	msg, err := r.ackPacketMsg(ctx, dstHeight, packet, ack)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	events, err := r.submitWithUpdate(ctx, SrcTarget, dstHeight, []sdk.Msg{msg})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	telemetry.RelayedPacketsCounter.Add(ctx, 1, telemetry.RelayAttributes(r.src.ChainID(), "ack"))
	return events[0], nil
}

// RelayTimeoutUnorderedPacket closes `packet` on src with a proof that dst has not received it at `dstHeight`.
// The channel must be unordered.
//
// It fails with ErrTimeoutNotReached if the timeout has not elapsed at `dstHeight`,
// ErrPacketAlreadyReceived if dst has received the packet, and ErrPacketAlreadyClosed if
// the commitment on src has already been cleared. No message is submitted in these cases.
func (r *Relay) RelayTimeoutUnorderedPacket(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet) ([]MsgEventLog, error) {
	ctx, span := r.startSpan(ctx, "Relay.RelayTimeoutUnorderedPacket", packet)
	defer span.End()

	msg, err := r.timeoutUnorderedMsg(ctx, dstHeight, packet)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	events, err := r.submitWithUpdate(ctx, SrcTarget, dstHeight, []sdk.Msg{msg})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	telemetry.RelayedPacketsCounter.Add(ctx, 1, telemetry.RelayAttributes(r.src.ChainID(), "timeout"))
	return events[0], nil
}

// RelayTimeoutOrderedPacket closes `packet` on src with a proof of the next sequence to receive on dst at `dstHeight`.
// The channel must be ordered. On an ordered channel, the timeout closes the channel, so the packets
// following `packet` are never delivered. Timing them out is left to the caller.
//
// In addition to the failures of RelayTimeoutUnorderedPacket, it fails with ErrNextSequenceMismatch
// if packets preceding `packet` have not been received on dst.
func (r *Relay) RelayTimeoutOrderedPacket(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet) ([]MsgEventLog, error) {
	ctx, span := r.startSpan(ctx, "Relay.RelayTimeoutOrderedPacket", packet)
	defer span.End()

	msg, err := r.timeoutOrderedMsg(ctx, dstHeight, packet)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	events, err := r.submitWithUpdate(ctx, SrcTarget, dstHeight, []sdk.Msg{msg})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	telemetry.RelayedPacketsCounter.Add(ctx, 1, telemetry.RelayAttributes(r.src.ChainID(), "timeout"))
	return events[0], nil
}

func (r *Relay) startSpan(ctx context.Context, spanName string, packet chantypes.Packet) (context.Context, trace.Span) {
	return tracer.Start(ctx, spanName,
		WithChannelPairAttributes(r.src, r.dst),
		trace.WithAttributes(AttributeKeySequence.Int64(int64(packet.Sequence))),
	)
}

func (r *Relay) recvPacketMsg(ctx context.Context, srcHeight ibcexported.Height, packet chantypes.Packet) (sdk.Msg, error) {
	dstLatest, err := r.dst.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	unreceived, err := r.dst.QueryUnreceivedPackets(NewQueryContext(ctx, dstLatest), []uint64{packet.Sequence})
	if err != nil {
		return nil, err
	}
	if len(unreceived) == 0 {
		return nil, errorsmod.Wrapf(ErrPacketAlreadyReceived, "sequence %d on %s", packet.Sequence, r.dst.ChainID())
	}

	srcCtx := NewQueryContext(ctx, srcHeight)
	res, err := r.src.QueryPacketCommitment(srcCtx, packet.Sequence)
	if err != nil {
		return nil, err
	}
	if len(res.Commitment) == 0 {
		return nil, errorsmod.Wrapf(ErrPacketAlreadyClosed, "sequence %d on %s", packet.Sequence, r.src.ChainID())
	}
	path := host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	proof, proofHeight, err := r.src.ProveState(srcCtx, path, res.Commitment)
	if err != nil {
		return nil, err
	}

	signer, err := r.dst.GetAddress()
	if err != nil {
		return nil, err
	}
	return r.dst.Path().RecvPacket(packet, proof, proofHeight, signer), nil
}

func (r *Relay) ackPacketMsg(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet, ack []byte) (sdk.Msg, error) {
	if err := r.checkCommitmentExists(ctx, packet); err != nil {
		return nil, err
	}

	path := host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	proof, proofHeight, err := r.dst.ProveState(NewQueryContext(ctx, dstHeight), path, chantypes.CommitAcknowledgement(ack))
	if err != nil {
		return nil, err
	}

	signer, err := r.src.GetAddress()
	if err != nil {
		return nil, err
	}
	return r.src.Path().RecvAcknowledgement(packet, ack, proof, proofHeight, signer), nil
}

func (r *Relay) timeoutUnorderedMsg(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet) (sdk.Msg, error) {
	if err := r.checkTimeoutElapsed(ctx, dstHeight, packet); err != nil {
		return nil, err
	}
	dstCtx := NewQueryContext(ctx, dstHeight)
	unreceived, err := r.dst.QueryUnreceivedPackets(dstCtx, []uint64{packet.Sequence})
	if err != nil {
		return nil, err
	}
	if len(unreceived) == 0 {
		return nil, errorsmod.Wrapf(ErrPacketAlreadyReceived, "sequence %d on %s", packet.Sequence, r.dst.ChainID())
	}
	if err := r.checkCommitmentExists(ctx, packet); err != nil {
		return nil, err
	}

	path := host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	proof, proofHeight, err := r.dst.ProveState(dstCtx, path, nil)
	if err != nil {
		return nil, err
	}

	signer, err := r.src.GetAddress()
	if err != nil {
		return nil, err
	}
	return r.src.Path().Timeout(packet, packet.Sequence, proof, proofHeight, signer), nil
}

func (r *Relay) timeoutOrderedMsg(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet) (sdk.Msg, error) {
	if err := r.checkTimeoutElapsed(ctx, dstHeight, packet); err != nil {
		return nil, err
	}
	dstCtx := NewQueryContext(ctx, dstHeight)
	res, err := r.dst.QueryNextSequenceReceive(dstCtx)
	if err != nil {
		return nil, err
	}
	nextSeqRecv := res.NextSequenceReceive
	switch {
	case nextSeqRecv > packet.Sequence:
		return nil, errorsmod.Wrapf(ErrPacketAlreadyReceived, "sequence %d on %s (next sequence receive %d)", packet.Sequence, r.dst.ChainID(), nextSeqRecv)
	case nextSeqRecv < packet.Sequence:
		return nil, errorsmod.Wrapf(ErrNextSequenceMismatch, "sequence %d on %s (next sequence receive %d)", packet.Sequence, r.dst.ChainID(), nextSeqRecv)
	}
	if err := r.checkCommitmentExists(ctx, packet); err != nil {
		return nil, err
	}

	path := host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel)
	proof, proofHeight, err := r.dst.ProveState(dstCtx, path, sdk.Uint64ToBigEndian(nextSeqRecv))
	if err != nil {
		return nil, err
	}

	signer, err := r.src.GetAddress()
	if err != nil {
		return nil, err
	}
	return r.src.Path().Timeout(packet, nextSeqRecv, proof, proofHeight, signer), nil
}

// checkCommitmentExists fails with ErrPacketAlreadyClosed if the commitment of `packet` has been cleared on src
func (r *Relay) checkCommitmentExists(ctx context.Context, packet chantypes.Packet) error {
	srcLatest, err := r.src.LatestHeight(ctx)
	if err != nil {
		return err
	}
	res, err := r.src.QueryPacketCommitment(NewQueryContext(ctx, srcLatest), packet.Sequence)
	if err != nil {
		return err
	}
	if len(res.Commitment) == 0 {
		return errorsmod.Wrapf(ErrPacketAlreadyClosed, "sequence %d on %s", packet.Sequence, r.src.ChainID())
	}
	return nil
}

func (r *Relay) checkTimeoutElapsed(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet) error {
	elapsed, err := r.timeoutElapsed(ctx, dstHeight, packet)
	if err != nil {
		return err
	}
	if !elapsed {
		return errorsmod.Wrapf(ErrTimeoutNotReached, "sequence %d at %s height %s", packet.Sequence, r.dst.ChainID(), dstHeight)
	}
	return nil
}

// timeoutElapsed returns true if the timeout height or timestamp of `packet` is reached on dst at `dstHeight`
func (r *Relay) timeoutElapsed(ctx context.Context, dstHeight ibcexported.Height, packet chantypes.Packet) (bool, error) {
	if !packet.TimeoutHeight.IsZero() && dstHeight.GTE(packet.TimeoutHeight) {
		return true, nil
	}
	if packet.TimeoutTimestamp != 0 {
		t, err := r.dst.Timestamp(ctx, dstHeight)
		if err != nil {
			return false, err
		}
		if uint64(t.UnixNano()) >= packet.TimeoutTimestamp {
			return true, nil
		}
	}
	return false, nil
}

// isSkippable returns true if `err` means the packet needs no message in this round
func isSkippable(err error) bool {
	return errors.Is(err, ErrPacketAlreadyReceived) ||
		errors.Is(err, ErrPacketAlreadyClosed) ||
		errors.Is(err, ErrNextSequenceMismatch)
}

// RelayPackets relays `packets` sent on src in one round, dispatching on the ordering of the channel.
//
// `srcHeight` and `dstHeight` are the heights at which proofs are made on src and dst respectively.
// Packets whose timeout has elapsed at `dstHeight` are timed out on src; the others are delivered to dst.
// Messages are submitted as at most one batch per chain, preceded by the update-client messages.
//
// On an ordered channel, only the packets preceding the first timed-out packet are delivered,
// and only that packet is timed out. The packets following it are left untouched.
func (r *Relay) RelayPackets(ctx context.Context, srcHeight, dstHeight ibcexported.Height, packets PacketInfoList) error {
	ctx, span := tracer.Start(ctx, "Relay.RelayPackets", WithChannelPairAttributes(r.src, r.dst))
	defer span.End()
	logger := GetChannelPairLogger(r.src, r.dst)

	if len(packets) == 0 {
		return nil
	}
	for _, p := range packets {
		elapsed, err := r.timeoutElapsed(ctx, dstHeight, p.Packet)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		p.TimedOut = elapsed
	}

	var recvs, timeouts PacketInfoList
	var timeoutMsg func(context.Context, ibcexported.Height, chantypes.Packet) (sdk.Msg, error)
	switch order := r.src.Path().ChannelOrder(); order {
	case chantypes.UNORDERED:
		for _, p := range packets {
			if p.TimedOut {
				timeouts = append(timeouts, p)
			} else {
				recvs = append(recvs, p)
			}
		}
		timeoutMsg = r.timeoutUnorderedMsg
	case chantypes.ORDERED:
		for _, p := range packets.SortBySequence() {
			if p.TimedOut {
				timeouts = append(timeouts, p)
				break
			}
			recvs = append(recvs, p)
		}
		timeoutMsg = r.timeoutOrderedMsg
	default:
		err := errorsmod.Wrapf(ErrInvalidChannelOrdering, "%s", order)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	recvMsgs, err := collectMsgs(ctx, recvs, func(ctx context.Context, p *PacketInfo) (sdk.Msg, error) {
		return r.recvPacketMsg(ctx, srcHeight, p.Packet)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	timeoutMsgs, err := collectMsgs(ctx, timeouts, func(ctx context.Context, p *PacketInfo) (sdk.Msg, error) {
		return timeoutMsg(ctx, dstHeight, p.Packet)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if len(recvMsgs) > 0 {
		eg.Go(func() error {
			if _, err := r.submitWithUpdate(egCtx, DstTarget, srcHeight, recvMsgs); err != nil {
				return err
			}
			telemetry.RelayedPacketsCounter.Add(egCtx, int64(len(recvMsgs)), telemetry.RelayAttributes(r.dst.ChainID(), "recv"))
			logger.InfoContext(egCtx, "packets relayed", "count", len(recvMsgs))
			return nil
		})
	}
	if len(timeoutMsgs) > 0 {
		eg.Go(func() error {
			if _, err := r.submitWithUpdate(egCtx, SrcTarget, dstHeight, timeoutMsgs); err != nil {
				return err
			}
			telemetry.RelayedPacketsCounter.Add(egCtx, int64(len(timeoutMsgs)), telemetry.RelayAttributes(r.src.ChainID(), "timeout"))
			logger.InfoContext(egCtx, "packets timed out", "count", len(timeoutMsgs))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "failed to relay packets", err)
		return err
	}
	return nil
}

// RelayAcknowledgements relays the acknowledgements written on dst for packets sent on src
// as one batch to src. `dstHeight` is the height at which proofs are made on dst.
func (r *Relay) RelayAcknowledgements(ctx context.Context, dstHeight ibcexported.Height, acks PacketInfoList) error {
	ctx, span := tracer.Start(ctx, "Relay.RelayAcknowledgements", WithChannelPairAttributes(r.src, r.dst))
	defer span.End()
	logger := GetChannelPairLogger(r.src, r.dst)

	msgs, err := collectMsgs(ctx, acks, func(ctx context.Context, p *PacketInfo) (sdk.Msg, error) {
		return r.ackPacketMsg(ctx, dstHeight, p.Packet, p.Acknowledgement)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if _, err := r.submitWithUpdate(ctx, SrcTarget, dstHeight, msgs); err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "failed to relay acknowledgements", err)
		return err
	}
	telemetry.RelayedPacketsCounter.Add(ctx, int64(len(msgs)), telemetry.RelayAttributes(r.src.ChainID(), "ack"))
	logger.InfoContext(ctx, "acknowledgements relayed", "count", len(msgs))
	return nil
}

// collectMsgs builds a message for each packet concurrently and returns them in the order of `packets`.
// Packets that need no message in this round are skipped.
func collectMsgs(ctx context.Context, packets PacketInfoList, build func(context.Context, *PacketInfo) (sdk.Msg, error)) ([]sdk.Msg, error) {
	logger := GetModuleLogger("relay")
	built := make([]sdk.Msg, len(packets))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range packets {
		eg.Go(func() error {
			msg, err := build(egCtx, p)
			if err != nil {
				if isSkippable(err) {
					logger.InfoContext(egCtx, "packet skipped", "sequence", p.Sequence, "reason", err.Error())
					return nil
				}
				return err
			}
			built[i] = msg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var msgs []sdk.Msg
	for _, msg := range built {
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}
