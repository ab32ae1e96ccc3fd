package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	mocktypes "github.com/datachainlab/ibc-mock-client/modules/light-clients/xx-mock/types"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

// Prover is a prover for mock light clients.
// A proof is the sha256 hash of the state path and value, which the mock client accepts as is.
type Prover struct {
	chain  core.Chain
	config ProverConfig
}

var _ core.Prover = (*Prover)(nil)

func NewProver(chain core.Chain, config ProverConfig) *Prover {
	return &Prover{chain: chain, config: config}
}

// GetLatestFinalizedHeader returns the header at `FinalityDelay` blocks behind the latest height
func (pr *Prover) GetLatestFinalizedHeader(ctx context.Context) (core.Header, error) {
	finalized, err := pr.latestFinalizedHeight(ctx)
	if err != nil {
		return nil, err
	}
	return pr.header(ctx, finalized)
}

// GetFinalizedHeader returns the header at `height`, which must be at or below the latest finalized height
func (pr *Prover) GetFinalizedHeader(ctx context.Context, height ibcexported.Height) (core.Header, error) {
	finalized, err := pr.latestFinalizedHeight(ctx)
	if err != nil {
		return nil, err
	}
	h := clienttypes.NewHeight(height.GetRevisionNumber(), height.GetRevisionHeight())
	if h.GT(finalized) {
		return nil, errorsmod.Wrapf(core.ErrHeightNotFinalized, "%s on %s: latest finalized=%s", h, pr.chain.ChainID(), finalized)
	}
	return pr.header(ctx, h)
}

func (pr *Prover) latestFinalizedHeight(ctx context.Context) (clienttypes.Height, error) {
	latestHeight, err := pr.chain.LatestHeight(ctx)
	if err != nil {
		return clienttypes.Height{}, err
	}
	if latestHeight.GetRevisionHeight() <= pr.config.FinalityDelay {
		return clienttypes.Height{}, errorsmod.Wrapf(core.ErrHeightNotFinalized, "no finalized header on %s: latest=%s, finality_delay=%d", pr.chain.ChainID(), latestHeight, pr.config.FinalityDelay)
	}
	return clienttypes.NewHeight(
		latestHeight.GetRevisionNumber(),
		latestHeight.GetRevisionHeight()-pr.config.FinalityDelay,
	), nil
}

func (pr *Prover) header(ctx context.Context, height clienttypes.Height) (core.Header, error) {
	timestamp, err := pr.chain.Timestamp(ctx, height)
	if err != nil {
		return nil, err
	}
	return &mocktypes.Header{
		Height:    height,
		Timestamp: uint64(timestamp.UnixNano()),
	}, nil
}

// SetupHeadersForUpdate returns the finalized header only because the mock client needs no intermediate header
func (pr *Prover) SetupHeadersForUpdate(ctx context.Context, counterparty core.Chain, latestFinalizedHeader core.Header) ([]core.Header, error) {
	if _, ok := latestFinalizedHeader.(*mocktypes.Header); !ok {
		return nil, fmt.Errorf("unexpected header type: %T", latestFinalizedHeader)
	}
	return []core.Header{latestFinalizedHeader}, nil
}

// ProveState returns a proof of `value` at `path` at the height of `ctx`
func (pr *Prover) ProveState(ctx core.QueryContext, path string, value []byte) ([]byte, clienttypes.Height, error) {
	height := clienttypes.NewHeight(ctx.Height().GetRevisionNumber(), ctx.Height().GetRevisionHeight())
	return MakeProof(path, value), height, nil
}

// MakeProof returns the proof that the mock client expects for `value` at `path`.
// A nil `value` yields a proof of absence.
func MakeProof(path string, value []byte) []byte {
	h := sha256.New()
	h.Write([]byte(path))
	if value != nil {
		h.Write(value)
	}
	return h.Sum(nil)
}

// VerifyProof returns true if `proof` is the proof of `value` at `path`
func VerifyProof(path string, value, proof []byte) bool {
	return bytes.Equal(MakeProof(path, value), proof)
}
