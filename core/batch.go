package core

import (
	"context"
	"sync"
	"sync/atomic"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Batch is a group of messages destined for one chain, paired with the private
// reply handle of its sender.
type Batch struct {
	Msgs   []sdk.Msg
	Result *ResultSender
}

// BatchOutcome is the application-level result of a batch.
// Exactly one of Events and Err is meaningful: if Err is nil, Events holds the
// events emitted by each message of the batch in the order of submission.
type BatchOutcome struct {
	Events [][]MsgEventLog
	Err    error
}

// NewMessagesChannel returns a bounded messages channel that can buffer `size` batches.
// Many senders may share the returned BatchSender; the BatchReceiver belongs to one consumer.
func NewMessagesChannel(size int) (*BatchSender, *BatchReceiver) {
	ch := make(chan Batch, size)
	closed := make(chan struct{})
	return &BatchSender{ch: ch, closed: closed}, &BatchReceiver{ch: ch, closed: closed}
}

// BatchSender is the producer side of a messages channel
type BatchSender struct {
	ch     chan Batch
	closed <-chan struct{}
}

// Send enqueues `msgs` with `result` as its reply handle.
// It returns once the batch is enqueued. It blocks only while the channel is full.
//
// If the batch cannot be enqueued because `ctx` is done or the consumer has gone,
// `result` is closed and an error wrapping ErrBatchTransport is returned.
func (s *BatchSender) Send(ctx context.Context, msgs []sdk.Msg, result *ResultSender) error {
	select {
	case <-s.closed:
		result.Close()
		return errorsmod.Wrap(ErrBatchTransport, "messages channel is closed")
	default:
	}

	select {
	case s.ch <- Batch{Msgs: msgs, Result: result}:
		// the consumer may have drained the channel before this batch arrived
		select {
		case <-s.closed:
			drain(s.ch)
		default:
		}
		return nil
	case <-s.closed:
		result.Close()
		return errorsmod.Wrap(ErrBatchTransport, "messages channel is closed")
	case <-ctx.Done():
		result.Close()
		return errorsmod.Wrap(ErrBatchTransport, ctx.Err().Error())
	}
}

// Len returns the number of batches waiting in the channel
func (s *BatchSender) Len() int {
	return len(s.ch)
}

// BatchReceiver is the consumer side of a messages channel
type BatchReceiver struct {
	ch        chan Batch
	closed    chan struct{}
	closeOnce sync.Once
}

// TryReceive returns the next ready batch without blocking.
// It returns false if no batch is ready.
func (r *BatchReceiver) TryReceive() (Batch, bool) {
	select {
	case b := <-r.ch:
		return b, true
	default:
		return Batch{}, false
	}
}

// Receive waits for the next batch until `ctx` is done.
func (r *BatchReceiver) Receive(ctx context.Context) (Batch, error) {
	select {
	case b := <-r.ch:
		return b, nil
	case <-ctx.Done():
		return Batch{}, ctx.Err()
	}
}

// Len returns the number of batches waiting in the channel
func (r *BatchReceiver) Len() int {
	return len(r.ch)
}

// Close stops accepting new batches. The batches left in the channel are
// drained and their senders are notified of a transport failure.
func (r *BatchReceiver) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	drain(r.ch)
}

func drain(ch chan Batch) {
	for {
		select {
		case b := <-ch:
			b.Result.Close()
		default:
			return
		}
	}
}

// NewResultChannel returns a one-shot result channel for a single batch
func NewResultChannel() (*ResultSender, *ResultReceiver) {
	ch := make(chan BatchOutcome, 1)
	return &ResultSender{ch: ch}, &ResultReceiver{ch: ch}
}

// ResultSender is the consumer's reply handle of a batch.
// It never blocks, even if the sender has stopped waiting.
type ResultSender struct {
	ch   chan<- BatchOutcome
	done atomic.Bool
}

// Send delivers the outcome of the batch.
// It must be called at most once: subsequent calls return ErrResultAlreadySent.
func (s *ResultSender) Send(outcome BatchOutcome) error {
	if !s.done.CompareAndSwap(false, true) {
		return ErrResultAlreadySent
	}
	s.ch <- outcome
	close(s.ch)
	return nil
}

// Close notifies the sender of a transport failure unless an outcome has already been sent.
func (s *ResultSender) Close() {
	if s.done.CompareAndSwap(false, true) {
		close(s.ch)
	}
}

// ResultReceiver is the sender's handle to wait for the outcome of its batch
type ResultReceiver struct {
	ch <-chan BatchOutcome
}

// Receive waits for the outcome of the batch.
//
// The returned error is a transport failure wrapping ErrBatchTransport: the consumer
// dropped the batch without replying, or `ctx` was done before the reply arrived.
// Application-level failures are reported in BatchOutcome.Err.
func (r *ResultReceiver) Receive(ctx context.Context) (BatchOutcome, error) {
	select {
	case outcome, ok := <-r.ch:
		if !ok {
			return BatchOutcome{}, errorsmod.Wrap(ErrBatchTransport, "batch dropped without reply")
		}
		return outcome, nil
	case <-ctx.Done():
		return BatchOutcome{}, errorsmod.Wrap(ErrBatchTransport, ctx.Err().Error())
	}
}

// SendAndWait enqueues `msgs` and waits for the outcome.
// The first return value is the events per message. A transport failure and an
// application failure are both returned as an error; use errors.Is with
// ErrBatchTransport to tell them apart.
func SendAndWait(ctx context.Context, sender *BatchSender, msgs []sdk.Msg) ([][]MsgEventLog, error) {
	resultSender, resultReceiver := NewResultChannel()
	if err := sender.Send(ctx, msgs, resultSender); err != nil {
		return nil, err
	}
	outcome, err := resultReceiver.Receive(ctx)
	if err != nil {
		return nil, err
	}
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	return outcome.Events, nil
}
