package core

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

//go:generate mockgen -destination=chain_mock.go -package core . Chain,Prover

// Chain represents a chain that supports sending transactions and querying the state
type Chain interface {
	// ChainID returns ID of the chain
	ChainID() string

	// SetRelayInfo sets the path end of the chain and that of the counterparty
	SetRelayInfo(path *PathEnd, counterpartyPath *PathEnd) error

	// Path returns the path end of the chain
	Path() *PathEnd

	// GetAddress returns the address of relayer
	GetAddress() (sdk.AccAddress, error)

	// Codec returns the codec
	Codec() codec.ProtoCodecMarshaler

	// LatestHeight returns the latest height of the chain
	//
	// NOTE: The returned height does not have to be finalized.
	// If a finalized height/header is required, the `Prover`'s `GetLatestFinalizedHeader` function should be called instead.
	LatestHeight(ctx context.Context) (ibcexported.Height, error)

	// Timestamp returns the block timestamp of the chain at `height`
	Timestamp(ctx context.Context, height ibcexported.Height) (time.Time, error)

	// SendMsgs sends msgs to the chain and waits for them to be included in blocks.
	// This function returns a list of MsgIDs, one for each msg, in the same order as `msgs`.
	SendMsgs(ctx context.Context, msgs []sdk.Msg) ([]MsgID, error)

	// GetMsgResult returns the execution result of `sdk.Msg` specified by `MsgID`
	// If the msg is not included in any block, this function waits for inclusion.
	GetMsgResult(ctx context.Context, id MsgID) (MsgResult, error)

	ICS02Querier
	ICS04Querier
}

// ICS02Querier is an interface to the state of ICS-02 (client) on the chain
type ICS02Querier interface {
	// QueryClientConsensusState returns the consensus state at `height` held by the client of the path end.
	// The second return value is false if the client has no consensus state at `height`.
	QueryClientConsensusState(ctx QueryContext, height ibcexported.Height) (ConsensusState, bool, error)
}

// ICS04Querier is an interface to the state of ICS-04 (channel and packet)
type ICS04Querier interface {
	// QueryPacketCommitment returns the packet commitment corresponding to a given sequence.
	// An empty commitment means the packet has been received or timed out on the counterparty.
	QueryPacketCommitment(ctx QueryContext, seq uint64) (*chantypes.QueryPacketCommitmentResponse, error)

	// QueryNextSequenceReceive returns the next sequence to be received on the channel
	QueryNextSequenceReceive(ctx QueryContext) (*chantypes.QueryNextSequenceReceiveResponse, error)

	// QueryUnreceivedPackets returns a list of unrelayed packet commitments
	QueryUnreceivedPackets(ctx QueryContext, seqs []uint64) ([]uint64, error)

	// QueryUnreceivedAcknowledgements returns a list of unrelayed packet acks
	QueryUnreceivedAcknowledgements(ctx QueryContext, seqs []uint64) ([]uint64, error)

	// QueryUnfinalizedRelayPackets returns packets sent on this chain up to `ctx.Height()`
	// whose commitments still exist.
	QueryUnfinalizedRelayPackets(ctx QueryContext) (PacketInfoList, error)

	// QueryUnfinalizedRelayAcknowledgements returns packets received on this chain up to `ctx.Height()`
	// together with the acknowledgements written for them.
	QueryUnfinalizedRelayAcknowledgements(ctx QueryContext) (PacketInfoList, error)
}

// Header represents a header of a chain that can be submitted to the counterparty's light client
type Header interface {
	ibcexported.ClientMessage
	GetHeight() ibcexported.Height
}

// Prover represents a prover that supports generating a commitment proof
type Prover interface {
	// GetLatestFinalizedHeader returns the latest finalized header on this chain
	// The returned header is expected to be the latest one of headers that can be verified by the light client
	GetLatestFinalizedHeader(ctx context.Context) (latestFinalizedHeader Header, err error)

	// GetFinalizedHeader returns the header at exactly `height`.
	// It fails with ErrHeightNotFinalized if `height` is above the latest finalized height.
	GetFinalizedHeader(ctx context.Context, height ibcexported.Height) (Header, error)

	// SetupHeadersForUpdate returns the finalized header and any intermediate headers needed to apply it to the client on the counterpaty chain
	// The order of the returned header slice should be as: [<intermediate headers>..., <update header>]
	// if the header slice's length == 0 and err == nil, the relayer should skip the update-client
	SetupHeadersForUpdate(ctx context.Context, counterparty Chain, latestFinalizedHeader Header) ([]Header, error)

	// ProveState returns a proof of an IBC state specified by `path` and `value`.
	// A nil `value` requests a proof of absence.
	ProveState(ctx QueryContext, path string, value []byte) (proof []byte, proofHeight clienttypes.Height, err error)
}

// QueryContext is a context that contains a height of the target chain for querying states
type QueryContext interface {
	// Context returns `context.Context``
	Context() context.Context

	// Height returns a height of the target chain for querying a state
	Height() ibcexported.Height
}

type queryContext struct {
	ctx    context.Context
	height ibcexported.Height
}

var _ QueryContext = (*queryContext)(nil)

// NewQueryContext returns a new context for querying states
func NewQueryContext(ctx context.Context, height ibcexported.Height) QueryContext {
	return queryContext{ctx: ctx, height: height}
}

// Context returns `context.Context“
func (qc queryContext) Context() context.Context {
	return qc.ctx
}

// Height returns a height of the target chain for querying a state
func (qc queryContext) Height() ibcexported.Height {
	return qc.height
}
