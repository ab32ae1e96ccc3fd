package core

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testMsgID int

func (testMsgID) IsMsgID() {}

type testMsgResult struct {
	ok     bool
	events []MsgEventLog
}

func (r testMsgResult) BlockHeight() clienttypes.Height { return clienttypes.NewHeight(0, 1) }
func (r testMsgResult) Status() (bool, string) {
	if r.ok {
		return true, ""
	}
	return false, "execution reverted"
}
func (r testMsgResult) Events() []MsgEventLog { return r.events }

// newTestWorkerChain returns a mock chain whose i-th submitted msg emits EventRecvPacket with sequence i+1
func newTestWorkerChain(t *testing.T) (*ProvableChain, *MockChain) {
	ctrl := gomock.NewController(t)
	chain := NewMockChain(ctrl)
	chain.EXPECT().ChainID().Return("ibc0").AnyTimes()
	chain.EXPECT().GetMsgResult(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, id MsgID) (MsgResult, error) {
		n := int(id.(testMsgID))
		return testMsgResult{ok: true, events: []MsgEventLog{&EventRecvPacket{Sequence: uint64(n + 1)}}}, nil
	}).AnyTimes()
	return NewProvableChain(chain, NewMockProver(ctrl)), chain
}

func expectSendMsgs(chain *MockChain, numMsgs int) *gomock.Call {
	return chain.EXPECT().SendMsgs(gomock.Any(), gomock.Len(numMsgs)).DoAndReturn(func(_ context.Context, msgs []sdk.Msg) ([]MsgID, error) {
		ids := make([]MsgID, len(msgs))
		for i := range msgs {
			ids[i] = testMsgID(i)
		}
		return ids, nil
	})
}

func enqueue(t *testing.T, sender *BatchSender, msgs []sdk.Msg) *ResultReceiver {
	t.Helper()
	resultSender, resultReceiver := NewResultChannel()
	require.NoError(t, sender.Send(context.Background(), msgs, resultSender))
	return resultReceiver
}

func receiveOutcome(t *testing.T, r *ResultReceiver) BatchOutcome {
	t.Helper()
	outcome, err := r.Receive(context.Background())
	require.NoError(t, err)
	return outcome
}

func sequences(events [][]MsgEventLog) []uint64 {
	var seqs []uint64
	for _, evs := range events {
		for _, ev := range evs {
			seqs = append(seqs, ev.(*EventRecvPacket).Sequence)
		}
	}
	return seqs
}

func TestBatchWorkerCoalesce(t *testing.T) {
	pc, chain := newTestWorkerChain(t)
	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(pc, receiver, 0, 0)

	r1 := enqueue(t, sender, testMsgs("a", "b"))
	r2 := enqueue(t, sender, testMsgs("c"))
	r3 := enqueue(t, sender, testMsgs("d", "e"))
	expectSendMsgs(chain, 5).Times(1)

	require.NoError(t, worker.RunOnce(context.Background()))

	assert.Equal(t, []uint64{1, 2}, sequences(receiveOutcome(t, r1).Events))
	assert.Equal(t, []uint64{3}, sequences(receiveOutcome(t, r2).Events))
	assert.Equal(t, []uint64{4, 5}, sequences(receiveOutcome(t, r3).Events))
}

func TestBatchWorkerMaxMsgLength(t *testing.T) {
	pc, chain := newTestWorkerChain(t)
	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(pc, receiver, 0, 3)

	r1 := enqueue(t, sender, testMsgs("a", "b"))
	r2 := enqueue(t, sender, testMsgs("c", "d"))
	r3 := enqueue(t, sender, testMsgs("e"))
	gomock.InOrder(
		expectSendMsgs(chain, 2),
		expectSendMsgs(chain, 3),
	)

	// r2 does not fit into the first round and is kept for the next one
	require.NoError(t, worker.RunOnce(context.Background()))
	assert.Equal(t, []uint64{1, 2}, sequences(receiveOutcome(t, r1).Events))

	require.NoError(t, worker.RunOnce(context.Background()))
	assert.Equal(t, []uint64{1, 2}, sequences(receiveOutcome(t, r2).Events))
	assert.Equal(t, []uint64{3}, sequences(receiveOutcome(t, r3).Events))
}

func TestBatchWorkerOversizedBatch(t *testing.T) {
	pc, chain := newTestWorkerChain(t)
	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(pc, receiver, 0, 1)

	// a single batch over the limit is still submitted as is
	r := enqueue(t, sender, testMsgs("a", "b"))
	expectSendMsgs(chain, 2)

	require.NoError(t, worker.RunOnce(context.Background()))
	assert.Equal(t, []uint64{1, 2}, sequences(receiveOutcome(t, r).Events))
}

func TestBatchWorkerSendFailure(t *testing.T) {
	pc, chain := newTestWorkerChain(t)
	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(pc, receiver, 0, 0)

	r1 := enqueue(t, sender, testMsgs("a"))
	r2 := enqueue(t, sender, testMsgs("b"))
	sendErr := errors.New("connection refused")
	chain.EXPECT().SendMsgs(gomock.Any(), gomock.Len(2)).Return(nil, sendErr)

	require.NoError(t, worker.RunOnce(context.Background()))
	assert.ErrorIs(t, receiveOutcome(t, r1).Err, sendErr)
	assert.ErrorIs(t, receiveOutcome(t, r2).Err, sendErr)
}

func TestBatchWorkerExecutionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := NewMockChain(ctrl)
	chain.EXPECT().ChainID().Return("ibc0").AnyTimes()
	chain.EXPECT().SendMsgs(gomock.Any(), gomock.Any()).Return([]MsgID{testMsgID(0), testMsgID(1)}, nil)
	chain.EXPECT().GetMsgResult(gomock.Any(), testMsgID(0)).Return(testMsgResult{ok: true}, nil)
	chain.EXPECT().GetMsgResult(gomock.Any(), testMsgID(1)).Return(testMsgResult{ok: false}, nil)

	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(NewProvableChain(chain, NewMockProver(ctrl)), receiver, 0, 0)
	r1 := enqueue(t, sender, testMsgs("a"))
	r2 := enqueue(t, sender, testMsgs("b"))

	require.NoError(t, worker.RunOnce(context.Background()))
	assert.ErrorIs(t, receiveOutcome(t, r1).Err, ErrMsgExecutionFailed)
	assert.ErrorIs(t, receiveOutcome(t, r2).Err, ErrMsgExecutionFailed)
}

func TestBatchWorkerResultMismatch(t *testing.T) {
	pc, chain := newTestWorkerChain(t)
	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(pc, receiver, 0, 0)

	r := enqueue(t, sender, testMsgs("a", "b"))
	chain.EXPECT().SendMsgs(gomock.Any(), gomock.Any()).Return([]MsgID{testMsgID(0)}, nil)

	require.NoError(t, worker.RunOnce(context.Background()))
	assert.ErrorIs(t, receiveOutcome(t, r).Err, ErrMsgResultMismatched)
}

func TestBatchWorkerRunCancelled(t *testing.T) {
	pc, chain := newTestWorkerChain(t)
	sender, receiver := NewMessagesChannel(8)
	worker := NewBatchWorker(pc, receiver, 0, 1)

	r1 := enqueue(t, sender, testMsgs("a"))
	r2 := enqueue(t, sender, testMsgs("b"))
	r3 := enqueue(t, sender, testMsgs("c"))
	expectSendMsgs(chain, 1)

	// the first round leaves r2 pending and r3 in the channel
	require.NoError(t, worker.RunOnce(context.Background()))
	assert.Equal(t, []uint64{1}, sequences(receiveOutcome(t, r1).Events))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, worker.Run(ctx), context.Canceled)

	for _, r := range []*ResultReceiver{r2, r3} {
		_, err := r.Receive(context.Background())
		require.ErrorIs(t, err, ErrBatchTransport)
	}
	resultSender, _ := NewResultChannel()
	require.ErrorIs(t, sender.Send(context.Background(), testMsgs("d"), resultSender), ErrBatchTransport)
}
