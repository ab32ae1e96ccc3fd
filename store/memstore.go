package store

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

// MemStore keeps client and consensus states in memory
type MemStore struct {
	clientLocks

	mu              sync.RWMutex
	clientStates    map[string]core.ClientState
	consensusStates map[string]map[clienttypes.Height]core.ConsensusState
}

func NewMemStore() *MemStore {
	return &MemStore{
		clientStates:    make(map[string]core.ClientState),
		consensusStates: make(map[string]map[clienttypes.Height]core.ConsensusState),
	}
}

func (s *MemStore) GetClientState(ctx context.Context, clientID string) (core.ClientState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.clientStates[clientID]
	if !ok {
		return nil, errorsmod.Wrap(core.ErrClientNotFound, clientID)
	}
	return cs, nil
}

func (s *MemStore) GetLatestConsensusState(ctx context.Context, clientID string) (core.ConsensusState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		latest       core.ConsensusState
		latestHeight clienttypes.Height
	)
	for height, cons := range s.consensusStates[clientID] {
		if latest == nil || height.GT(latestHeight) {
			latest, latestHeight = cons, height
		}
	}
	if latest == nil {
		return nil, errorsmod.Wrap(core.ErrConsensusStateNotFound, clientID)
	}
	return latest, nil
}

func (s *MemStore) GetConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (core.ConsensusState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cons, ok := s.consensusStates[clientID][height]
	return cons, ok, nil
}

func (s *MemStore) GetPreviousConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (core.ConsensusState, bool, error) {
	return s.neighbour(clientID, func(h, best clienttypes.Height) bool {
		return h.LT(height) && (best.IsZero() || h.GT(best))
	})
}

func (s *MemStore) GetNextConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (core.ConsensusState, bool, error) {
	return s.neighbour(clientID, func(h, best clienttypes.Height) bool {
		return h.GT(height) && (best.IsZero() || h.LT(best))
	})
}

// neighbour returns the consensus state at the height that `better` prefers over all others
func (s *MemStore) neighbour(clientID string, better func(h, best clienttypes.Height) bool) (core.ConsensusState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		cons core.ConsensusState
		best clienttypes.Height
	)
	for h, c := range s.consensusStates[clientID] {
		if better(h, best) {
			cons, best = c, h
		}
	}
	return cons, cons != nil, nil
}

func (s *MemStore) SetClientState(ctx context.Context, clientID string, clientState core.ClientState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientStates[clientID] = clientState
	return nil
}

func (s *MemStore) SetConsensusState(ctx context.Context, clientID string, height clienttypes.Height, consensusState core.ConsensusState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	states, ok := s.consensusStates[clientID]
	if !ok {
		states = make(map[clienttypes.Height]core.ConsensusState)
		s.consensusStates[clientID] = states
	}
	states[height] = consensusState
	return nil
}

// ConsensusStateCount returns the number of consensus states stored for `clientID`
func (s *MemStore) ConsensusStateCount(clientID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.consensusStates[clientID])
}
