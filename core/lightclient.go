package core

import (
	"context"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

// ClientState is the locally held state of a light client tracking a counterparty chain.
type ClientState interface {
	// ClientType returns the type tag of the client (e.g. "07-tendermint")
	ClientType() string

	// IsFrozen returns true if misbehaviour has been detected for the client
	IsFrozen() bool

	// GetTrustingPeriod returns the duration in which a consensus state is trusted
	GetTrustingPeriod() time.Duration

	// GetLatestHeight returns the latest height the client has been updated to
	GetLatestHeight() clienttypes.Height
}

// ConsensusState is a trusted snapshot of the counterparty chain at a specific height.
type ConsensusState interface {
	// GetTimestamp returns the block time of the counterparty at the snapshot height
	GetTimestamp() time.Time
}

// ClientHeader is untrusted evidence submitted to update a client.
type ClientHeader interface {
	GetHeight() ibcexported.Height
}

// ClientReader reads client and consensus states from the local client store.
type ClientReader interface {
	// GetClientState returns the client state of `clientID`.
	// It returns ErrClientNotFound if the client does not exist.
	GetClientState(ctx context.Context, clientID string) (ClientState, error)

	// GetLatestConsensusState returns the consensus state stored at the highest height.
	// It returns ErrConsensusStateNotFound if the client has no consensus state.
	GetLatestConsensusState(ctx context.Context, clientID string) (ConsensusState, error)
}

// ConsensusStateReader looks up consensus states by height.
// Verifiers use it to detect conflicting headers.
type ConsensusStateReader interface {
	GetConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (cons ConsensusState, found bool, err error)

	// GetPreviousConsensusState returns the consensus state at the highest height lower than `height`
	GetPreviousConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (cons ConsensusState, found bool, err error)

	// GetNextConsensusState returns the consensus state at the lowest height greater than `height`
	GetNextConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (cons ConsensusState, found bool, err error)
}

// ClientWriter writes client and consensus states to the local client store.
type ClientWriter interface {
	SetClientState(ctx context.Context, clientID string, clientState ClientState) error
	SetConsensusState(ctx context.Context, clientID string, height clienttypes.Height, consensusState ConsensusState) error
}

// ClientLocker serializes read-verify-write sequences for a client.
//
// A store that is shared by concurrent update flows must implement it.
// UpdateClientHandler holds the lock from the first read to the last write.
type ClientLocker interface {
	LockClient(clientID string) (unlock func())
}

// HeaderVerifier verifies a header against the current client state.
type HeaderVerifier interface {
	// CheckHeaderAndUpdateState returns the client and consensus states that result from applying `header`.
	// If misbehaviour is detected, the returned client state is frozen.
	CheckHeaderAndUpdateState(ctx context.Context, clientID string, clientState ClientState, header ClientHeader) (ClientState, ConsensusState, error)
}

// HostClock returns the current time of the host.
type HostClock interface {
	HostTimestamp() time.Time
}

// SystemClock is a HostClock backed by the system clock.
type SystemClock struct{}

var _ HostClock = SystemClock{}

func (SystemClock) HostTimestamp() time.Time {
	return time.Now()
}

// ClientContext is the set of capabilities consumed by UpdateClientHandler.
type ClientContext interface {
	ClientReader
	ClientWriter
	HeaderVerifier
	HostClock
	EventEmitter
}

type clientContext struct {
	ClientReader
	ClientWriter
	HeaderVerifier
	HostClock
	EventEmitter
}

// ClientStore is a store that can both read and write client states.
type ClientStore interface {
	ClientReader
	ClientWriter
}

// NewClientContext composes independent capabilities into a ClientContext.
// If `store` implements ClientLocker, the returned context implements it as well.
func NewClientContext(store ClientStore, verifier HeaderVerifier, clock HostClock, emitter EventEmitter) ClientContext {
	c := clientContext{
		ClientReader:   store,
		ClientWriter:   store,
		HeaderVerifier: verifier,
		HostClock:      clock,
		EventEmitter:   emitter,
	}
	if locker, ok := store.(ClientLocker); ok {
		return lockingClientContext{clientContext: c, locker: locker}
	}
	return c
}

type lockingClientContext struct {
	clientContext
	locker ClientLocker
}

func (c lockingClientContext) LockClient(clientID string) func() {
	return c.locker.LockClient(clientID)
}
