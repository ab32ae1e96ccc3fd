package core

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"go.opentelemetry.io/otel/trace"
)

// ProvableChain is a chain paired with the prover of its states.
//
// Every call to the Chain and Prover methods made through a ProvableChain is traced,
// so chain and prover modules need no tracing of their own.
type ProvableChain struct {
	Chain
	Prover
}

// NewProvableChain returns a new ProvableChain instance
func NewProvableChain(chain Chain, prover Prover) *ProvableChain {
	return &ProvableChain{Chain: chain, Prover: prover}
}

func (pc *ProvableChain) startChainSpan(ctx context.Context, method string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append(opts, WithChainAttributes(pc.ChainID()), implementedIn(pc.Chain))
	return tracer.Start(ctx, "Chain."+method, opts...)
}

func (pc *ProvableChain) startQuerySpan(ctx QueryContext, method string, opts ...trace.SpanStartOption) (QueryContext, trace.Span) {
	opts = append(opts, WithChannelAttributes(pc), implementedIn(pc.Chain))
	return StartTraceWithQueryContext(tracer, ctx, "Chain."+method, opts...)
}

func (pc *ProvableChain) startProverSpan(ctx context.Context, method string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Prover."+method, WithChainAttributes(pc.ChainID()), implementedIn(pc.Prover))
}

func (pc *ProvableChain) SendMsgs(ctx context.Context, msgs []sdk.Msg) (ids []MsgID, err error) {
	ctx, span := pc.startChainSpan(ctx, "SendMsgs", trace.WithAttributes(AttributeKeyBatchSize.Int(len(msgs))))
	defer func() { endSpan(span, err) }()
	return pc.Chain.SendMsgs(ctx, msgs)
}

func (pc *ProvableChain) GetMsgResult(ctx context.Context, id MsgID) (result MsgResult, err error) {
	ctx, span := pc.startChainSpan(ctx, "GetMsgResult")
	defer func() { endSpan(span, err) }()
	return pc.Chain.GetMsgResult(ctx, id)
}

func (pc *ProvableChain) LatestHeight(ctx context.Context) (height ibcexported.Height, err error) {
	ctx, span := pc.startChainSpan(ctx, "LatestHeight")
	defer func() { endSpan(span, err) }()
	return pc.Chain.LatestHeight(ctx)
}

func (pc *ProvableChain) Timestamp(ctx context.Context, height ibcexported.Height) (t time.Time, err error) {
	ctx, span := pc.startChainSpan(ctx, "Timestamp", trace.WithAttributes(heightAttributes(height)...))
	defer func() { endSpan(span, err) }()
	return pc.Chain.Timestamp(ctx, height)
}

func (pc *ProvableChain) QueryPacketCommitment(ctx QueryContext, seq uint64) (res *chantypes.QueryPacketCommitmentResponse, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryPacketCommitment", trace.WithAttributes(AttributeKeySequence.Int64(int64(seq))))
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryPacketCommitment(ctx, seq)
}

func (pc *ProvableChain) QueryClientConsensusState(ctx QueryContext, height ibcexported.Height) (cons ConsensusState, found bool, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryClientConsensusState", trace.WithAttributes(heightAttributes(height)...))
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryClientConsensusState(ctx, height)
}

func (pc *ProvableChain) QueryNextSequenceReceive(ctx QueryContext) (res *chantypes.QueryNextSequenceReceiveResponse, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryNextSequenceReceive")
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryNextSequenceReceive(ctx)
}

func (pc *ProvableChain) QueryUnreceivedPackets(ctx QueryContext, seqs []uint64) (unreceived []uint64, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryUnreceivedPackets")
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryUnreceivedPackets(ctx, seqs)
}

func (pc *ProvableChain) QueryUnreceivedAcknowledgements(ctx QueryContext, seqs []uint64) (unreceived []uint64, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryUnreceivedAcknowledgements")
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryUnreceivedAcknowledgements(ctx, seqs)
}

func (pc *ProvableChain) QueryUnfinalizedRelayPackets(ctx QueryContext) (packets PacketInfoList, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryUnfinalizedRelayPackets")
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryUnfinalizedRelayPackets(ctx)
}

func (pc *ProvableChain) QueryUnfinalizedRelayAcknowledgements(ctx QueryContext) (acks PacketInfoList, err error) {
	ctx, span := pc.startQuerySpan(ctx, "QueryUnfinalizedRelayAcknowledgements")
	defer func() { endSpan(span, err) }()
	return pc.Chain.QueryUnfinalizedRelayAcknowledgements(ctx)
}

func (pc *ProvableChain) GetLatestFinalizedHeader(ctx context.Context) (header Header, err error) {
	ctx, span := pc.startProverSpan(ctx, "GetLatestFinalizedHeader")
	defer func() { endSpan(span, err) }()
	return pc.Prover.GetLatestFinalizedHeader(ctx)
}

func (pc *ProvableChain) GetFinalizedHeader(ctx context.Context, height ibcexported.Height) (header Header, err error) {
	ctx, span := pc.startProverSpan(ctx, "GetFinalizedHeader")
	defer func() { endSpan(span, err) }()
	return pc.Prover.GetFinalizedHeader(ctx, height)
}

func (pc *ProvableChain) SetupHeadersForUpdate(ctx context.Context, counterparty Chain, latestFinalizedHeader Header) (headers []Header, err error) {
	ctx, span := pc.startProverSpan(ctx, "SetupHeadersForUpdate")
	defer func() { endSpan(span, err) }()
	return pc.Prover.SetupHeadersForUpdate(ctx, counterparty, latestFinalizedHeader)
}

func (pc *ProvableChain) ProveState(ctx QueryContext, path string, value []byte) (proof []byte, proofHeight clienttypes.Height, err error) {
	ctx, span := StartTraceWithQueryContext(tracer, ctx, "Prover.ProveState",
		WithChainAttributes(pc.ChainID()),
		trace.WithAttributes(AttributeKeyPath.String(path)),
		implementedIn(pc.Prover),
	)
	defer func() { endSpan(span, err) }()
	return pc.Prover.ProveState(ctx, path, value)
}
