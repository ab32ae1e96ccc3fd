// Package store provides the client stores read and written by the update-client state machine.
package store

import (
	"sync"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

// StateCodec encodes the client and consensus states of a client type
type StateCodec interface {
	MarshalClientState(clientState core.ClientState) ([]byte, error)
	UnmarshalClientState(bz []byte) (core.ClientState, error)
	MarshalConsensusState(consensusState core.ConsensusState) ([]byte, error)
	UnmarshalConsensusState(bz []byte) (core.ConsensusState, error)
}

// Store is a client store that can be shared by concurrent update flows
type Store interface {
	core.ClientReader
	core.ClientWriter
	core.ConsensusStateReader
	core.ClientLocker
}

var (
	_ Store = (*MemStore)(nil)
	_ Store = (*DBStore)(nil)
)

// clientLocks hands out one mutex per client
type clientLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// LockClient blocks until the lock of `clientID` is acquired and returns the function to release it
func (l *clientLocks) LockClient(clientID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[clientID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[clientID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
