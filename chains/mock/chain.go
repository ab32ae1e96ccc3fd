// Package mock implements an in-memory chain that hosts one channel end and mock light clients.
// Each call to SendMsgs or SendPacket commits a block, and every block keeps its own state
// so that queries can be made at any past height.
package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	mocktypes "github.com/datachainlab/ibc-mock-client/modules/light-clients/xx-mock/types"

	clientmock "github.com/hyperledger-labs/yui-relay-core/clients/mock"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

type Chain struct {
	config  ChainConfig
	genesis time.Time
	codec   *codec.ProtoCodec
	address sdk.AccAddress

	path             *core.PathEnd
	counterpartyPath *core.PathEnd

	// clients of counterparty chains hosted on this chain
	clientStore *store.MemStore
	clients     *core.UpdateClientHandler
	events      *core.EventBus

	// timestamp of the block being executed, in nanoseconds
	now atomic.Int64

	mu      sync.RWMutex
	blocks  []*state
	results map[MsgID]*MsgResult
}

var (
	_ core.Chain     = (*Chain)(nil)
	_ core.HostClock = (*Chain)(nil)
)

// NewChain returns a chain whose first block has the timestamp `genesis`
func NewChain(config ChainConfig, genesis time.Time) *Chain {
	registry := codectypes.NewInterfaceRegistry()
	clienttypes.RegisterInterfaces(registry)
	chantypes.RegisterInterfaces(registry)
	mocktypes.RegisterInterfaces(registry)

	c := &Chain{
		config:      config,
		genesis:     genesis,
		codec:       codec.NewProtoCodec(registry),
		address:     sdk.AccAddress(tmhash.SumTruncated([]byte(config.ChainID))),
		clientStore: store.NewMemStore(),
		events:      core.NewEventBus(),
		blocks:      []*state{newState(genesis)},
		results:     make(map[MsgID]*MsgResult),
	}
	c.now.Store(genesis.UnixNano())
	ctx := core.NewClientContext(c.clientStore, clientmock.NewVerifier(c.clientStore), c, c.events)
	c.clients = core.NewUpdateClientHandler(config.ChainID, ctx)
	return c
}

func (c *Chain) ChainID() string {
	return c.config.ChainID
}

// Config returns the configuration the chain is built with
func (c *Chain) Config() ChainConfig {
	return c.config
}

func (c *Chain) SetRelayInfo(path *core.PathEnd, counterpartyPath *core.PathEnd) error {
	if path.ChainID != c.config.ChainID {
		return fmt.Errorf("path end of %s is set to %s", path.ChainID, c.config.ChainID)
	}
	if err := path.Validate(); err != nil {
		return err
	}
	if err := counterpartyPath.Validate(); err != nil {
		return err
	}
	c.path, c.counterpartyPath = path, counterpartyPath
	return nil
}

func (c *Chain) Path() *core.PathEnd {
	return c.path
}

func (c *Chain) GetAddress() (sdk.AccAddress, error) {
	return c.address, nil
}

func (c *Chain) Codec() codec.ProtoCodecMarshaler {
	return c.codec
}

// HostTimestamp returns the timestamp of the block being executed
func (c *Chain) HostTimestamp() time.Time {
	return time.Unix(0, c.now.Load())
}

// ClientStore returns the store of the clients hosted on this chain
func (c *Chain) ClientStore() *store.MemStore {
	return c.clientStore
}

// Events returns the bus of the client events emitted on this chain
func (c *Chain) Events() *core.EventBus {
	return c.events
}

// CreateClient creates a mock client of a counterparty chain
func (c *Chain) CreateClient(ctx context.Context, clientID string, clientState *clientmock.ClientState, consensusState *clientmock.ConsensusState) error {
	if err := c.clientStore.SetClientState(ctx, clientID, clientState); err != nil {
		return err
	}
	return c.clientStore.SetConsensusState(ctx, clientID, clientState.GetLatestHeight(), consensusState)
}

func (c *Chain) height(h uint64) clienttypes.Height {
	return clienttypes.NewHeight(c.config.RevisionNumber, h)
}

func (c *Chain) LatestHeight(ctx context.Context) (ibcexported.Height, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height(uint64(len(c.blocks))), nil
}

func (c *Chain) Timestamp(ctx context.Context, height ibcexported.Height) (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(height)
	if err != nil {
		return time.Time{}, err
	}
	return st.timestamp, nil
}

// block returns the state at `height`. The caller must hold the lock.
func (c *Chain) block(height ibcexported.Height) (*state, error) {
	if height.GetRevisionNumber() != c.config.RevisionNumber {
		return nil, fmt.Errorf("revision number mismatch: chain=%d, height=%s", c.config.RevisionNumber, height)
	}
	h := height.GetRevisionHeight()
	if h == 0 || h > uint64(len(c.blocks)) {
		return nil, fmt.Errorf("block %s not found on %s: latest=%d", height, c.config.ChainID, len(c.blocks))
	}
	return c.blocks[h-1], nil
}

func (c *Chain) nextTimestamp() time.Time {
	return c.genesis.Add(time.Duration(len(c.blocks)) * c.config.BlockTime)
}

// AdvanceBlocks commits `n` empty blocks
func (c *Chain) AdvanceBlocks(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for range n {
		c.blocks = append(c.blocks, c.blocks[len(c.blocks)-1].next(c.nextTimestamp()))
	}
	c.now.Store(c.blocks[len(c.blocks)-1].timestamp.UnixNano())
}

// SendPacket commits a block that sends a packet with `data` through the channel of the path end
func (c *Chain) SendPacket(ctx context.Context, data []byte, timeoutHeight clienttypes.Height, timeoutTimestamp uint64) (chantypes.Packet, error) {
	if c.path == nil || c.counterpartyPath == nil {
		return chantypes.Packet{}, fmt.Errorf("relay info is not set on %s", c.config.ChainID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.blocks[len(c.blocks)-1].next(c.nextTimestamp())
	if st.closed {
		return chantypes.Packet{}, fmt.Errorf("channel %s is closed", c.path.ChannelID)
	}
	seq := st.nextSequenceSend
	st.nextSequenceSend++
	packet := chantypes.NewPacket(
		data, seq,
		c.path.PortID, c.path.ChannelID,
		c.counterpartyPath.PortID, c.counterpartyPath.ChannelID,
		timeoutHeight, timeoutTimestamp,
	)
	height := c.height(uint64(len(c.blocks) + 1))
	st.commitments[seq] = chantypes.CommitPacket(c.codec, packet)
	st.sent[seq] = &core.PacketInfo{Packet: packet, EventHeight: height}

	c.blocks = append(c.blocks, st)
	c.now.Store(st.timestamp.UnixNano())
	return packet, nil
}

// SendMsgs commits a block that executes `msgs` in order.
// If a message fails, every message of the block fails and the channel state is left unchanged.
// Client updates made before the failing message are kept.
func (c *Chain) SendMsgs(ctx context.Context, msgs []sdk.Msg) ([]core.MsgID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.blocks[len(c.blocks)-1]
	timestamp := c.nextTimestamp()
	c.now.Store(timestamp.UnixNano())
	st := latest.next(timestamp)
	height := c.height(uint64(len(c.blocks) + 1))

	results := make([]*MsgResult, len(msgs))
	for i, msg := range msgs {
		events, err := c.execute(ctx, st, height, msg)
		if err != nil {
			reason := fmt.Sprintf("msg %d (%s): %v", i, sdk.MsgTypeURL(msg), err)
			for j := range results {
				results[j] = &MsgResult{height: height, reason: reason}
			}
			st = latest.next(timestamp)
			break
		}
		results[i] = &MsgResult{height: height, status: true, events: events}
	}
	c.blocks = append(c.blocks, st)

	ids := make([]core.MsgID, len(results))
	for i, result := range results {
		id := MsgID{Height: height.RevisionHeight, Index: i}
		c.results[id] = result
		ids[i] = &id
	}
	return ids, nil
}

func (c *Chain) GetMsgResult(ctx context.Context, id core.MsgID) (core.MsgResult, error) {
	msgID, ok := id.(*MsgID)
	if !ok {
		return nil, fmt.Errorf("unexpected message id type: %T", id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.results[*msgID]
	if !ok {
		return nil, fmt.Errorf("message %s not found on %s", msgID, c.config.ChainID)
	}
	return result, nil
}

func (c *Chain) QueryPacketCommitment(ctx core.QueryContext, seq uint64) (*chantypes.QueryPacketCommitmentResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(ctx.Height())
	if err != nil {
		return nil, err
	}
	return &chantypes.QueryPacketCommitmentResponse{
		Commitment:  st.commitments[seq],
		ProofHeight: c.height(ctx.Height().GetRevisionHeight()),
	}, nil
}

// QueryClientConsensusState returns the consensus state at `height` held by the client of the path end.
// Hosted clients are not versioned by block, so the latest client store is read whatever the query height.
func (c *Chain) QueryClientConsensusState(ctx core.QueryContext, height ibcexported.Height) (core.ConsensusState, bool, error) {
	if c.path == nil {
		return nil, false, fmt.Errorf("relay info is not set on %s", c.config.ChainID)
	}
	h := clienttypes.NewHeight(height.GetRevisionNumber(), height.GetRevisionHeight())
	return c.clientStore.GetConsensusState(ctx.Context(), c.path.ClientID, h)
}

func (c *Chain) QueryNextSequenceReceive(ctx core.QueryContext) (*chantypes.QueryNextSequenceReceiveResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(ctx.Height())
	if err != nil {
		return nil, err
	}
	return &chantypes.QueryNextSequenceReceiveResponse{
		NextSequenceReceive: st.nextSequenceRecv,
		ProofHeight:         c.height(ctx.Height().GetRevisionHeight()),
	}, nil
}

func (c *Chain) QueryUnreceivedPackets(ctx core.QueryContext, seqs []uint64) ([]uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(ctx.Height())
	if err != nil {
		return nil, err
	}
	var unreceived []uint64
	for _, seq := range seqs {
		if !st.received(seq) {
			unreceived = append(unreceived, seq)
		}
	}
	return unreceived, nil
}

func (c *Chain) QueryUnreceivedAcknowledgements(ctx core.QueryContext, seqs []uint64) ([]uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(ctx.Height())
	if err != nil {
		return nil, err
	}
	var unreceived []uint64
	for _, seq := range seqs {
		if _, ok := st.commitments[seq]; ok {
			unreceived = append(unreceived, seq)
		}
	}
	return unreceived, nil
}

func (c *Chain) QueryUnfinalizedRelayPackets(ctx core.QueryContext) (core.PacketInfoList, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(ctx.Height())
	if err != nil {
		return nil, err
	}
	var packets core.PacketInfoList
	for seq := range st.commitments {
		p := *st.sent[seq]
		packets = append(packets, &p)
	}
	return packets.SortBySequence(), nil
}

func (c *Chain) QueryUnfinalizedRelayAcknowledgements(ctx core.QueryContext) (core.PacketInfoList, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, err := c.block(ctx.Height())
	if err != nil {
		return nil, err
	}
	var acks core.PacketInfoList
	for _, info := range st.acks {
		p := *info
		acks = append(acks, &p)
	}
	return acks.SortBySequence(), nil
}

// ReceivedSequences returns the sequences of the packets received on this chain at the latest height
func (c *Chain) ReceivedSequences() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := c.blocks[len(c.blocks)-1]
	var seqs []uint64
	for seq := range st.receipts {
		seqs = append(seqs, seq)
	}
	slices.Sort(seqs)
	return seqs
}

// ChannelClosed returns true if the channel has been closed by the timeout of an ordered packet
func (c *Chain) ChannelClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1].closed
}
