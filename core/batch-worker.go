package core

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	retry "github.com/avast/retry-go"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/gogoproto/proto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperledger-labs/yui-relay-core/internal/telemetry"
)

// BatchWorker is the consumer of a messages channel.
// It coalesces ready batches into one submission to the chain and replies to each batch.
type BatchWorker struct {
	chain    *ProvableChain
	receiver *BatchReceiver

	// MaxTxSize and MaxMsgLength bound a coalesced submission. They are ignored if they are set to zero.
	maxTxSize    uint64
	maxMsgLength uint64

	// pending is a batch received but left out of the previous round
	pending *Batch
}

// NewBatchWorker returns a new BatchWorker that submits batches from `receiver` to `chain`
func NewBatchWorker(chain *ProvableChain, receiver *BatchReceiver, maxTxSize, maxMsgLength uint64) *BatchWorker {
	return &BatchWorker{
		chain:        chain,
		receiver:     receiver,
		maxTxSize:    maxTxSize,
		maxMsgLength: maxMsgLength,
	}
}

// Run processes batches until `ctx` is done.
// On return, the receiver is closed and every batch not yet processed is
// notified of a transport failure.
func (w *BatchWorker) Run(ctx context.Context) error {
	defer w.close()
	for {
		if err := w.RunOnce(ctx); err != nil {
			return err
		}
	}
}

func (w *BatchWorker) close() {
	if w.pending != nil {
		w.pending.Result.Close()
		w.pending = nil
	}
	w.receiver.Close()
}

// RunOnce waits for a batch, coalesces the batches that are ready at that moment
// and submits them as one round. It returns an error only if `ctx` is done.
func (w *BatchWorker) RunOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var first Batch
	if w.pending != nil {
		first, w.pending = *w.pending, nil
	} else {
		b, err := w.receiver.Receive(ctx)
		if err != nil {
			return err
		}
		first = b
	}

	batches := w.collect(first)
	telemetry.BatchQueueGauge.Set(int64(w.receiver.Len()), AttributeKeyChainID.String(w.chain.ChainID()))
	w.submit(ctx, batches)
	return nil
}

// collect appends ready batches to `first` while the limits allow.
// A batch that does not fit is kept for the next round.
func (w *BatchWorker) collect(first Batch) []Batch {
	batches := []Batch{first}
	msgLen, txSize := batchSize(first)
	for {
		b, ok := w.receiver.TryReceive()
		if !ok {
			break
		}
		l, s := batchSize(b)
		if w.isMaxTx(msgLen+l, txSize+s) {
			w.pending = &b
			break
		}
		batches = append(batches, b)
		msgLen, txSize = msgLen+l, txSize+s
	}
	return batches
}

func (w *BatchWorker) isMaxTx(msgLen, txSize uint64) bool {
	return (w.maxMsgLength != 0 && msgLen > w.maxMsgLength) ||
		(w.maxTxSize != 0 && txSize > w.maxTxSize)
}

func batchSize(b Batch) (msgLen, txSize uint64) {
	for _, msg := range b.Msgs {
		msgLen++
		txSize += uint64(proto.Size(msg))
	}
	return msgLen, txSize
}

// submit sends the messages of all batches in one call and replies to every batch exactly once
func (w *BatchWorker) submit(ctx context.Context, batches []Batch) {
	var msgs []sdk.Msg
	for _, b := range batches {
		msgs = append(msgs, b.Msgs...)
	}

	ctx, span := tracer.Start(ctx, "BatchWorker.submit",
		WithChainAttributes(w.chain.ChainID()),
		trace.WithAttributes(
			AttributeKeyBatchSize.Int(len(msgs)),
			attribute.Int("batches", len(batches)),
		),
	)
	defer span.End()
	logger := GetChainLogger(w.chain)

	events, err := w.sendMsgs(ctx, msgs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "failed to submit batches", err, "num_msgs", len(msgs), "num_batches", len(batches))
		for _, b := range batches {
			if ctx.Err() != nil {
				// the round was interrupted, which is a transport failure for the senders
				b.Result.Close()
				continue
			}
			if err := b.Result.Send(BatchOutcome{Err: err}); err != nil {
				logger.ErrorContext(ctx, "failed to reply to batch", err)
			}
		}
		return
	}
	telemetry.BatchMessagesCounter.Add(ctx, int64(len(msgs)), telemetry.ChainAttributes(w.chain.ChainID()))

	// split events back per batch in enqueue order
	offset := 0
	for _, b := range batches {
		outcome := BatchOutcome{Events: events[offset : offset+len(b.Msgs)]}
		offset += len(b.Msgs)
		if err := b.Result.Send(outcome); err != nil {
			logger.ErrorContext(ctx, "failed to reply to batch", err)
		}
	}
	logger.InfoContext(ctx, "batches submitted", "num_msgs", len(msgs), "num_batches", len(batches))
}

// sendMsgs submits `msgs` and returns the events emitted by each msg
func (w *BatchWorker) sendMsgs(ctx context.Context, msgs []sdk.Msg) ([][]MsgEventLog, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	ids, err := w.chain.SendMsgs(ctx, msgs)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(msgs) {
		return nil, errorsmod.Wrapf(ErrMsgResultMismatched, "%d msgs, %d ids", len(msgs), len(ids))
	}

	logger := GetChainLogger(w.chain)
	events := make([][]MsgEventLog, len(ids))
	for i, id := range ids {
		var result MsgResult
		if err := retry.Do(func() error {
			var err error
			result, err = w.chain.GetMsgResult(ctx, id)
			return err
		}, rtyAtt, rtyDel, rtyErr, retry.Context(ctx), retry.OnRetry(func(n uint, err error) {
			logger.InfoContext(ctx,
				"retrying to get msg result",
				"msg_index", i,
				"try", n+1,
				"try_limit", rtyAttNum,
				"error", err.Error(),
			)
		})); err != nil {
			return nil, err
		}
		if ok, reason := result.Status(); !ok {
			return nil, errorsmod.Wrapf(ErrMsgExecutionFailed, "msg %d (%s): %s", i, sdk.MsgTypeURL(msgs[i]), reason)
		}
		events[i] = result.Events()
	}
	return events, nil
}
