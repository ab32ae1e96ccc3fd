package core

import (
	"context"
	"time"

	retry "github.com/avast/retry-go"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/hyperledger-labs/yui-relay-core/internal/telemetry"
)

var (
	rtyAttNum = uint(5)
	rtyAtt    = retry.Attempts(rtyAttNum)
	rtyDel    = retry.Delay(time.Millisecond * 400)
	rtyErr    = retry.LastErrorOnly(true)
)

// ServiceConfig is the configuration of RelayService
type ServiceConfig struct {
	RelayInterval  time.Duration
	BatchQueueSize int
	MaxTxSize      uint64
	MaxMsgLength   uint64
}

// StartService starts a relay service between `src` and `dst` and blocks until `ctx` is done
// or the service fails.
func StartService(ctx context.Context, src, dst *ProvableChain, cfg ServiceConfig) error {
	srcSender, srcReceiver := NewMessagesChannel(cfg.BatchQueueSize)
	dstSender, dstReceiver := NewMessagesChannel(cfg.BatchQueueSize)
	srv := NewRelayService(NewRelay(src, dst, srcSender, dstSender), cfg.RelayInterval)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return NewBatchWorker(src, srcReceiver, cfg.MaxTxSize, cfg.MaxMsgLength).Run(egCtx)
	})
	eg.Go(func() error {
		return NewBatchWorker(dst, dstReceiver, cfg.MaxTxSize, cfg.MaxMsgLength).Run(egCtx)
	})
	eg.Go(func() error {
		return srv.Start(egCtx)
	})
	return eg.Wait()
}

// RelayService relays packets and acknowledgements in both directions of a Relay periodically
type RelayService struct {
	relay    *Relay
	interval time.Duration
}

// NewRelayService returns a new service
func NewRelayService(relay *Relay, interval time.Duration) *RelayService {
	return &RelayService{
		relay:    relay,
		interval: interval,
	}
}

// Start starts a relay service
func (srv *RelayService) Start(ctx context.Context) error {
	src, dst := srv.relay.src, srv.relay.dst
	logger := GetChannelPairLogger(src, dst)
	for {
		if err := retry.Do(func() error {
			return srv.Serve(ctx)
		}, rtyAtt, rtyDel, rtyErr, retry.Context(ctx), retry.OnRetry(func(n uint, err error) {
			logger.InfoContext(ctx,
				"retrying to serve relays",
				"src", src.ChainID(),
				"dst", dst.ChainID(),
				"try", n+1,
				"try_limit", rtyAttNum,
				"error", err.Error(),
			)
		})); err != nil {
			return err
		}
		if err := wait(ctx, srv.interval); err != nil {
			return err
		}
	}
}

// Serve performs one round of packet and acknowledgement relay in both directions
func (srv *RelayService) Serve(ctx context.Context) error {
	src, dst := srv.relay.src, srv.relay.dst
	ctx, span := tracer.Start(ctx, "RelayService.Serve", WithChannelPairAttributes(src, dst))
	defer span.End()
	logger := GetChannelPairLogger(src, dst)
	defer logger.TimeTrack(time.Now(), "Serve")

	// First, sync the latest finalized headers of src and dst
	srcHeight, dstHeight, err := srv.relay.SyncHeaders(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get finalized headers", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// get unrelayed packets and acks
	packets, err := srv.unrelayedPackets(ctx, srcHeight, dstHeight)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get unrelayed packets", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	acks, err := srv.unrelayedAcknowledgements(ctx, srcHeight, dstHeight)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get unrelayed acknowledgements", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	reverse := srv.relay.Reverse()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.relay.RelayPackets(egCtx, srcHeight, dstHeight, packets.Src)
	})
	eg.Go(func() error {
		return reverse.RelayPackets(egCtx, dstHeight, srcHeight, packets.Dst)
	})
	eg.Go(func() error {
		// acks written on src for packets sent on dst
		return reverse.RelayAcknowledgements(egCtx, srcHeight, acks.Src)
	})
	eg.Go(func() error {
		// acks written on dst for packets sent on src
		return srv.relay.RelayAcknowledgements(egCtx, dstHeight, acks.Dst)
	})
	if err := eg.Wait(); err != nil {
		logger.ErrorContext(ctx, "failed to relay", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// unrelayedPackets returns packets sent on each side and not received on the other side
func (srv *RelayService) unrelayedPackets(ctx context.Context, srcHeight, dstHeight ibcexported.Height) (*RelayPackets, error) {
	src, dst := srv.relay.src, srv.relay.dst

	srcPackets, err := unreceivedPackets(ctx, src, dst, srcHeight)
	if err != nil {
		return nil, err
	}
	dstPackets, err := unreceivedPackets(ctx, dst, src, dstHeight)
	if err != nil {
		return nil, err
	}
	return &RelayPackets{Src: srcPackets, Dst: dstPackets}, nil
}

func unreceivedPackets(ctx context.Context, chain, counterparty *ProvableChain, height ibcexported.Height) (PacketInfoList, error) {
	packets, err := chain.QueryUnfinalizedRelayPackets(NewQueryContext(ctx, height))
	if err != nil {
		return nil, err
	}
	telemetry.BacklogSizeGauge.Set(int64(len(packets)), AttributeKeyChainID.String(chain.ChainID()))
	if len(packets) == 0 {
		return nil, nil
	}
	counterpartyLatest, err := counterparty.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	seqs, err := counterparty.QueryUnreceivedPackets(NewQueryContext(ctx, counterpartyLatest), packets.Sequences())
	if err != nil {
		return nil, err
	}
	return packets.Select(seqs), nil
}

// unrelayedAcknowledgements returns acknowledgements written on each side and not yet received on the other side
func (srv *RelayService) unrelayedAcknowledgements(ctx context.Context, srcHeight, dstHeight ibcexported.Height) (*RelayPackets, error) {
	src, dst := srv.relay.src, srv.relay.dst

	srcAcks, err := unreceivedAcknowledgements(ctx, src, dst, srcHeight)
	if err != nil {
		return nil, err
	}
	dstAcks, err := unreceivedAcknowledgements(ctx, dst, src, dstHeight)
	if err != nil {
		return nil, err
	}
	return &RelayPackets{Src: srcAcks, Dst: dstAcks}, nil
}

func unreceivedAcknowledgements(ctx context.Context, chain, counterparty *ProvableChain, height ibcexported.Height) (PacketInfoList, error) {
	acks, err := chain.QueryUnfinalizedRelayAcknowledgements(NewQueryContext(ctx, height))
	if err != nil {
		return nil, err
	}
	if len(acks) == 0 {
		return nil, nil
	}
	counterpartyLatest, err := counterparty.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	seqs, err := counterparty.QueryUnreceivedAcknowledgements(NewQueryContext(ctx, counterpartyLatest), acks.Sequences())
	if err != nil {
		return nil, err
	}
	return acks.Select(seqs), nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
