package core

import (
	"context"
	"sync"

	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

// SyncHeaders keeps the latest finalized headers of the chains of a Relay.
//
// Proofs of a round are made at the heights of the synced headers, so the
// update-client messages of the round carry the same headers.
type SyncHeaders struct {
	mu  sync.RWMutex
	hds map[string]Header
}

// NewSyncHeaders returns an empty SyncHeaders
func NewSyncHeaders() *SyncHeaders {
	return &SyncHeaders{hds: make(map[string]Header)}
}

// GetHeader returns the synced header of `chainID`, or nil if it has not been synced
func (sh *SyncHeaders) GetHeader(chainID string) Header {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.hds[chainID]
}

// GetHeight returns the height of the synced header of `chainID`, or nil if it has not been synced
func (sh *SyncHeaders) GetHeight(chainID string) ibcexported.Height {
	if h := sh.GetHeader(chainID); h != nil {
		return h.GetHeight()
	}
	return nil
}

// Updates fetches the latest finalized headers of `chains` and replaces the synced ones
func (sh *SyncHeaders) Updates(ctx context.Context, chains ...*ProvableChain) error {
	hds := make(map[string]Header, len(chains))
	for _, chain := range chains {
		h, err := chain.GetLatestFinalizedHeader(ctx)
		if err != nil {
			return err
		}
		hds[chain.ChainID()] = h
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	for chainID, h := range hds {
		sh.hds[chainID] = h
	}
	return nil
}

// headerAt returns the header of `chain` at exactly `height`.
// The synced header is used if it is at `height`. Otherwise the header is fetched from the prover.
func (sh *SyncHeaders) headerAt(ctx context.Context, chain *ProvableChain, height ibcexported.Height) (Header, error) {
	if h := sh.GetHeader(chain.ChainID()); h != nil && h.GetHeight().EQ(height) {
		return h, nil
	}
	return chain.GetFinalizedHeader(ctx, height)
}
