package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cometbft/cometbft-db"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

const dbName = "clients"

// DBStore keeps client and consensus states in a key-value database.
//
// The client state of a client is stored at its ICS-24 path.
// Consensus states are stored under a per-client prefix followed by the big-endian
// encoding of the height, so that the latest one is the last key of the prefix.
type DBStore struct {
	clientLocks

	db     dbm.DB
	codecs map[string]StateCodec
}

// NewDBStore returns a store on `db`. `codecs` maps a client type to the codec of its states.
func NewDBStore(db dbm.DB, codecs map[string]StateCodec) *DBStore {
	return &DBStore{db: db, codecs: codecs}
}

// OpenDBStore opens a goleveldb database under `dir`
func OpenDBStore(dir string, codecs map[string]StateCodec) (*DBStore, error) {
	db, err := dbm.NewDB(dbName, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, err
	}
	return NewDBStore(db, codecs), nil
}

// Close closes the underlying database
func (s *DBStore) Close() error {
	return s.db.Close()
}

func clientTypeKey(clientID string) []byte {
	return []byte(fmt.Sprintf("%s/%s/clientType", host.KeyClientStorePrefix, clientID))
}

func clientStateKey(clientID string) []byte {
	return host.FullClientStateKey(clientID)
}

func consensusStatePrefix(clientID string) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s/", host.KeyClientStorePrefix, clientID, host.KeyConsensusStatePrefix))
}

func consensusStateKey(clientID string, height clienttypes.Height) []byte {
	key := consensusStatePrefix(clientID)
	key = binary.BigEndian.AppendUint64(key, height.RevisionNumber)
	key = binary.BigEndian.AppendUint64(key, height.RevisionHeight)
	return key
}

func (s *DBStore) codec(clientID string) (StateCodec, error) {
	bz, err := s.db.Get(clientTypeKey(clientID))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrap(core.ErrClientNotFound, clientID)
	}
	return s.codecByType(string(bz))
}

func (s *DBStore) codecByType(clientType string) (StateCodec, error) {
	c, ok := s.codecs[clientType]
	if !ok {
		return nil, errorsmod.Wrapf(core.ErrInvalidClientStateType, "no codec registered for client type %s", clientType)
	}
	return c, nil
}

func (s *DBStore) GetClientState(ctx context.Context, clientID string) (core.ClientState, error) {
	codec, err := s.codec(clientID)
	if err != nil {
		return nil, err
	}
	bz, err := s.db.Get(clientStateKey(clientID))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, errorsmod.Wrap(core.ErrClientNotFound, clientID)
	}
	return codec.UnmarshalClientState(bz)
}

func (s *DBStore) GetLatestConsensusState(ctx context.Context, clientID string) (core.ConsensusState, error) {
	codec, err := s.codec(clientID)
	if err != nil {
		return nil, err
	}
	prefix := consensusStatePrefix(clientID)
	it, err := s.db.ReverseIterator(prefix, storetypes.PrefixEndBytes(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Close()
	if !it.Valid() {
		return nil, errorsmod.Wrap(core.ErrConsensusStateNotFound, clientID)
	}
	return codec.UnmarshalConsensusState(it.Value())
}

func (s *DBStore) GetConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (core.ConsensusState, bool, error) {
	codec, err := s.codec(clientID)
	if err != nil {
		return nil, false, err
	}
	bz, err := s.db.Get(consensusStateKey(clientID, height))
	if err != nil {
		return nil, false, err
	}
	if bz == nil {
		return nil, false, nil
	}
	cons, err := codec.UnmarshalConsensusState(bz)
	if err != nil {
		return nil, false, err
	}
	return cons, true, nil
}

// GetPreviousConsensusState returns the consensus state at the highest height lower than `height`.
// The reverse iterator excludes its end, so its first item is the previous one.
func (s *DBStore) GetPreviousConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (core.ConsensusState, bool, error) {
	codec, err := s.codec(clientID)
	if err != nil {
		return nil, false, err
	}
	it, err := s.db.ReverseIterator(consensusStatePrefix(clientID), consensusStateKey(clientID, height))
	if err != nil {
		return nil, false, err
	}
	defer it.Close()
	return unmarshalFirst(codec, it)
}

// GetNextConsensusState returns the consensus state at the lowest height greater than `height`.
// The iterator includes its start, so the state at `height` itself is skipped.
func (s *DBStore) GetNextConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (core.ConsensusState, bool, error) {
	codec, err := s.codec(clientID)
	if err != nil {
		return nil, false, err
	}
	key := consensusStateKey(clientID, height)
	it, err := s.db.Iterator(key, storetypes.PrefixEndBytes(consensusStatePrefix(clientID)))
	if err != nil {
		return nil, false, err
	}
	defer it.Close()
	if it.Valid() && bytes.Equal(it.Key(), key) {
		it.Next()
	}
	return unmarshalFirst(codec, it)
}

func unmarshalFirst(codec StateCodec, it dbm.Iterator) (core.ConsensusState, bool, error) {
	if !it.Valid() {
		return nil, false, it.Error()
	}
	cons, err := codec.UnmarshalConsensusState(it.Value())
	if err != nil {
		return nil, false, err
	}
	return cons, true, nil
}

func (s *DBStore) SetClientState(ctx context.Context, clientID string, clientState core.ClientState) error {
	codec, err := s.codecByType(clientState.ClientType())
	if err != nil {
		return err
	}
	bz, err := codec.MarshalClientState(clientState)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(clientTypeKey(clientID), []byte(clientState.ClientType())); err != nil {
		return err
	}
	if err := batch.Set(clientStateKey(clientID), bz); err != nil {
		return err
	}
	return batch.WriteSync()
}

// SetConsensusState stores `consensusState` at `height`.
// The client state must have been stored before.
func (s *DBStore) SetConsensusState(ctx context.Context, clientID string, height clienttypes.Height, consensusState core.ConsensusState) error {
	codec, err := s.codec(clientID)
	if err != nil {
		return err
	}
	bz, err := codec.MarshalConsensusState(consensusState)
	if err != nil {
		return err
	}
	return s.db.SetSync(consensusStateKey(clientID, height), bz)
}
