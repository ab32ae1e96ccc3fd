package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	dbm "github.com/cometbft/cometbft-db"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	clientmock "github.com/hyperledger-labs/yui-relay-core/clients/mock"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

const testClientID = "xx-mock-0"

var genesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type StoreTestSuite struct {
	suite.Suite

	newStore func() store.Store
	store    store.Store
}

func TestMemStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newStore: func() store.Store { return store.NewMemStore() },
	})
}

func TestDBStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newStore: func() store.Store {
			return store.NewDBStore(dbm.NewMemDB(), map[string]store.StateCodec{
				clientmock.ClientType: clientmock.Codec{},
			})
		},
	})
}

func (s *StoreTestSuite) SetupTest() {
	s.store = s.newStore()
}

func (s *StoreTestSuite) setClient(ctx context.Context, heights ...clienttypes.Height) {
	latest := heights[0]
	for _, h := range heights {
		if h.GT(latest) {
			latest = h
		}
	}
	s.Require().NoError(s.store.SetClientState(ctx, testClientID, clientmock.NewClientState(latest, time.Hour)))
	for _, h := range heights {
		cons := clientmock.NewConsensusState(genesisTime.Add(time.Duration(h.RevisionNumber*1000+h.RevisionHeight) * time.Second))
		s.Require().NoError(s.store.SetConsensusState(ctx, testClientID, h, cons))
	}
}

func (s *StoreTestSuite) TestClientState() {
	ctx := context.Background()

	_, err := s.store.GetClientState(ctx, testClientID)
	s.Require().ErrorIs(err, core.ErrClientNotFound)

	s.setClient(ctx, clienttypes.NewHeight(0, 5))
	cs, err := s.store.GetClientState(ctx, testClientID)
	s.Require().NoError(err)
	s.Equal(clientmock.ClientType, cs.ClientType())
	s.Equal(clienttypes.NewHeight(0, 5), cs.GetLatestHeight())
	s.Equal(time.Hour, cs.GetTrustingPeriod())
	s.False(cs.IsFrozen())

	frozen := clientmock.NewClientState(clienttypes.NewHeight(0, 5), time.Hour)
	frozen.Frozen = true
	s.Require().NoError(s.store.SetClientState(ctx, testClientID, frozen))
	cs, err = s.store.GetClientState(ctx, testClientID)
	s.Require().NoError(err)
	s.True(cs.IsFrozen())
}

func (s *StoreTestSuite) TestConsensusState() {
	ctx := context.Background()
	s.setClient(ctx, clienttypes.NewHeight(0, 5), clienttypes.NewHeight(0, 7))

	cons, found, err := s.store.GetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, 7))
	s.Require().NoError(err)
	s.Require().True(found)
	s.True(cons.GetTimestamp().Equal(genesisTime.Add(7 * time.Second)))

	_, found, err = s.store.GetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, 6))
	s.Require().NoError(err)
	s.False(found)

	_, found, err = s.store.GetConsensusState(ctx, testClientID, clienttypes.NewHeight(1, 7))
	s.Require().NoError(err)
	s.False(found)
}

func (s *StoreTestSuite) TestLatestConsensusState() {
	ctx := context.Background()

	_, err := s.store.GetLatestConsensusState(ctx, testClientID)
	s.Require().Error(err)

	// heights are written out of order and across revisions
	s.setClient(ctx,
		clienttypes.NewHeight(0, 300),
		clienttypes.NewHeight(1, 2),
		clienttypes.NewHeight(0, 9),
		clienttypes.NewHeight(1, 1),
	)
	cons, err := s.store.GetLatestConsensusState(ctx, testClientID)
	s.Require().NoError(err)
	s.True(cons.GetTimestamp().Equal(genesisTime.Add(1002*time.Second)), cons.GetTimestamp())

	s.Require().NoError(s.store.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(1, 256), clientmock.NewConsensusState(genesisTime.Add(time.Hour))))
	cons, err = s.store.GetLatestConsensusState(ctx, testClientID)
	s.Require().NoError(err)
	s.True(cons.GetTimestamp().Equal(genesisTime.Add(time.Hour)))
}

func (s *StoreTestSuite) TestNeighbourConsensusStates() {
	ctx := context.Background()
	s.setClient(ctx,
		clienttypes.NewHeight(0, 9),
		clienttypes.NewHeight(1, 2),
		clienttypes.NewHeight(0, 3),
		clienttypes.NewHeight(0, 300),
	)
	other := "xx-mock-1"
	s.Require().NoError(s.store.SetClientState(ctx, other, clientmock.NewClientState(clienttypes.NewHeight(0, 1), time.Hour)))
	s.Require().NoError(s.store.SetConsensusState(ctx, other, clienttypes.NewHeight(0, 1), clientmock.NewConsensusState(genesisTime)))

	testCases := []struct {
		name    string
		height  clienttypes.Height
		prev    time.Duration
		next    time.Duration
		hasPrev bool
		hasNext bool
	}{
		{"below lowest", clienttypes.NewHeight(0, 1), 0, 3 * time.Second, false, true},
		{"between", clienttypes.NewHeight(0, 5), 3 * time.Second, 9 * time.Second, true, true},
		{"at stored height", clienttypes.NewHeight(0, 9), 3 * time.Second, 300 * time.Second, true, true},
		{"across revisions", clienttypes.NewHeight(1, 1), 300 * time.Second, 1002 * time.Second, true, true},
		{"above highest", clienttypes.NewHeight(1, 3), 1002 * time.Second, 0, true, false},
	}
	for _, tc := range testCases {
		prev, found, err := s.store.GetPreviousConsensusState(ctx, testClientID, tc.height)
		s.Require().NoError(err, tc.name)
		s.Require().Equal(tc.hasPrev, found, tc.name)
		if found {
			s.True(prev.GetTimestamp().Equal(genesisTime.Add(tc.prev)), tc.name)
		}

		next, found, err := s.store.GetNextConsensusState(ctx, testClientID, tc.height)
		s.Require().NoError(err, tc.name)
		s.Require().Equal(tc.hasNext, found, tc.name)
		if found {
			s.True(next.GetTimestamp().Equal(genesisTime.Add(tc.next)), tc.name)
		}
	}
}

func (s *StoreTestSuite) TestClientsAreIsolated() {
	ctx := context.Background()
	s.setClient(ctx, clienttypes.NewHeight(0, 5))

	other := "xx-mock-1"
	s.Require().NoError(s.store.SetClientState(ctx, other, clientmock.NewClientState(clienttypes.NewHeight(0, 1), time.Hour)))
	s.Require().NoError(s.store.SetConsensusState(ctx, other, clienttypes.NewHeight(0, 1), clientmock.NewConsensusState(genesisTime)))

	cons, err := s.store.GetLatestConsensusState(ctx, other)
	s.Require().NoError(err)
	s.True(cons.GetTimestamp().Equal(genesisTime))

	cons, err = s.store.GetLatestConsensusState(ctx, testClientID)
	s.Require().NoError(err)
	s.True(cons.GetTimestamp().Equal(genesisTime.Add(5 * time.Second)))
}

func (s *StoreTestSuite) TestLockClient() {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.store.LockClient(testClientID)
			defer unlock()

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
		}()
	}
	wg.Wait()
	s.Equal(1, maxSeen)

	// locks of other clients are independent
	unlock := s.store.LockClient(testClientID)
	defer unlock()
	done := make(chan struct{})
	go func() {
		s.store.LockClient("xx-mock-1")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("lock of another client was blocked")
	}
}

func TestDBStoreUnknownClientType(t *testing.T) {
	ctx := context.Background()
	st := store.NewDBStore(dbm.NewMemDB(), map[string]store.StateCodec{})

	err := st.SetClientState(ctx, testClientID, clientmock.NewClientState(clienttypes.NewHeight(0, 1), time.Hour))
	require.ErrorIs(t, err, core.ErrInvalidClientStateType)

	err = st.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, 1), clientmock.NewConsensusState(genesisTime))
	require.ErrorIs(t, err, core.ErrClientNotFound)
}

func TestDBStoreReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	codecs := map[string]store.StateCodec{clientmock.ClientType: clientmock.Codec{}}

	st, err := store.OpenDBStore(dir, codecs)
	require.NoError(t, err)
	require.NoError(t, st.SetClientState(ctx, testClientID, clientmock.NewClientState(clienttypes.NewHeight(0, 3), time.Hour)))
	require.NoError(t, st.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(0, 3), clientmock.NewConsensusState(genesisTime)))
	require.NoError(t, st.Close())

	st, err = store.OpenDBStore(dir, codecs)
	require.NoError(t, err)
	defer st.Close()
	cs, err := st.GetClientState(ctx, testClientID)
	require.NoError(t, err)
	require.Equal(t, clienttypes.NewHeight(0, 3), cs.GetLatestHeight())
	cons, err := st.GetLatestConsensusState(ctx, testClientID)
	require.NoError(t, err)
	require.True(t, cons.GetTimestamp().Equal(genesisTime))
}
