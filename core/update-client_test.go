package core_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientmock "github.com/hyperledger-labs/yui-relay-core/clients/mock"
	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

const testClientID = "xx-mock-0"

var genesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) HostTimestamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// countingVerifier counts the headers passed to the wrapped verifier
type countingVerifier struct {
	core.HeaderVerifier
	calls atomic.Int32
}

func (v *countingVerifier) CheckHeaderAndUpdateState(ctx context.Context, clientID string, clientState core.ClientState, header core.ClientHeader) (core.ClientState, core.ConsensusState, error) {
	v.calls.Add(1)
	return v.HeaderVerifier.CheckHeaderAndUpdateState(ctx, clientID, clientState, header)
}

type updateClientFixture struct {
	store    *store.MemStore
	clock    *fakeClock
	bus      *core.EventBus
	verifier *countingVerifier
	handler  *core.UpdateClientHandler
}

// newUpdateClientFixture creates a mock client at height 1-10 updated at genesisTime with a trusting period of 100s
func newUpdateClientFixture(t *testing.T) *updateClientFixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemStore()
	require.NoError(t, st.SetClientState(ctx, testClientID, clientmock.NewClientState(clienttypes.NewHeight(1, 10), 100*time.Second)))
	require.NoError(t, st.SetConsensusState(ctx, testClientID, clienttypes.NewHeight(1, 10), clientmock.NewConsensusState(genesisTime)))

	clock := &fakeClock{now: genesisTime}
	bus := core.NewEventBus()
	verifier := &countingVerifier{HeaderVerifier: clientmock.NewVerifier(st)}
	clientCtx := core.NewClientContext(st, verifier, clock, bus)
	return &updateClientFixture{
		store:    st,
		clock:    clock,
		bus:      bus,
		verifier: verifier,
		handler:  core.NewUpdateClientHandler("ibc0", clientCtx),
	}
}

func (f *updateClientFixture) clientState(t *testing.T) *clientmock.ClientState {
	t.Helper()
	cs, err := f.store.GetClientState(context.Background(), testClientID)
	require.NoError(t, err)
	return cs.(*clientmock.ClientState)
}

func TestHandleUpdate(t *testing.T) {
	f := newUpdateClientFixture(t)
	events, cancel := f.bus.Subscribe(1)
	defer cancel()

	f.clock.set(genesisTime.Add(50 * time.Second))
	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(5*time.Second))
	require.NoError(t, f.handler.HandleUpdate(context.Background(), testClientID, header))

	assert.Equal(t, clienttypes.NewHeight(1, 11), f.clientState(t).GetLatestHeight())
	cons, found, err := f.store.GetConsensusState(context.Background(), testClientID, clienttypes.NewHeight(1, 11))
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, cons.GetTimestamp().Equal(genesisTime.Add(5*time.Second)))
	assert.EqualValues(t, 1, f.verifier.calls.Load())

	ev := <-events
	update, ok := ev.(*core.UpdateClientEvent)
	require.True(t, ok)
	assert.Equal(t, testClientID, update.ClientID)
	assert.Equal(t, clientmock.ClientType, update.ClientType)
	assert.Equal(t, clienttypes.NewHeight(1, 11), update.Height)
}

func TestHandleUpdateExpired(t *testing.T) {
	f := newUpdateClientFixture(t)
	events, cancel := f.bus.Subscribe(1)
	defer cancel()

	f.clock.set(genesisTime.Add(150 * time.Second))
	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(5*time.Second))
	err := f.handler.HandleUpdate(context.Background(), testClientID, header)
	require.ErrorIs(t, err, core.ErrClientIsExpired)
	assert.Zero(t, f.verifier.calls.Load(), "an expired client must not verify headers")

	assert.Equal(t, clienttypes.NewHeight(1, 10), f.clientState(t).GetLatestHeight())
	assert.Equal(t, 1, f.store.ConsensusStateCount(testClientID))
	assert.Empty(t, events)

	status, err := f.handler.ClientStatus(context.Background(), testClientID)
	require.NoError(t, err)
	assert.Equal(t, core.Expired, status)
}

func TestHandleUpdateFrozen(t *testing.T) {
	f := newUpdateClientFixture(t)
	cs := f.clientState(t)
	cs.Frozen = true
	require.NoError(t, f.store.SetClientState(context.Background(), testClientID, cs))

	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(5*time.Second))
	err := f.handler.HandleUpdate(context.Background(), testClientID, header)
	require.ErrorIs(t, err, core.ErrClientIsFrozen)
	assert.Zero(t, f.verifier.calls.Load())
	assert.Equal(t, 1, f.store.ConsensusStateCount(testClientID))

	status, err := f.handler.ClientStatus(context.Background(), testClientID)
	require.NoError(t, err)
	assert.Equal(t, core.Frozen, status)
}

type unknownHeader struct{}

func (unknownHeader) GetHeight() ibcexported.Height {
	return clienttypes.NewHeight(1, 11)
}

func TestHandleUpdateInvalidHeader(t *testing.T) {
	f := newUpdateClientFixture(t)
	events, cancel := f.bus.Subscribe(1)
	defer cancel()

	for name, header := range map[string]core.ClientHeader{
		"zero timestamp":    &clientmock.Header{Height: clienttypes.NewHeight(1, 11)},
		"revision mismatch": clientmock.NewHeader(clienttypes.NewHeight(2, 1), genesisTime.Add(time.Second)),
		"unknown type":      unknownHeader{},
	} {
		t.Run(name, func(t *testing.T) {
			err := f.handler.HandleUpdate(context.Background(), testClientID, header)
			require.ErrorIs(t, err, core.ErrInvalidClientHeader)
			assert.Equal(t, clienttypes.NewHeight(1, 10), f.clientState(t).GetLatestHeight())
			assert.Equal(t, 1, f.store.ConsensusStateCount(testClientID))
		})
	}
	assert.Empty(t, events)
}

func TestHandleUpdateClientNotFound(t *testing.T) {
	f := newUpdateClientFixture(t)
	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(time.Second))
	err := f.handler.HandleUpdate(context.Background(), "xx-mock-9", header)
	require.ErrorIs(t, err, core.ErrClientNotFound)

	_, err = f.handler.ClientStatus(context.Background(), "xx-mock-9")
	require.ErrorIs(t, err, core.ErrClientNotFound)
}

func TestHandleUpdateMisbehaviour(t *testing.T) {
	f := newUpdateClientFixture(t)
	events, cancel := f.bus.Subscribe(2)
	defer cancel()
	ctx := context.Background()

	// a conflicting header at the height of the stored consensus state
	conflicting := clientmock.NewHeader(clienttypes.NewHeight(1, 10), genesisTime.Add(time.Second))
	require.NoError(t, f.handler.HandleUpdate(ctx, testClientID, conflicting))

	cs := f.clientState(t)
	assert.True(t, cs.IsFrozen())
	assert.Equal(t, clienttypes.NewHeight(1, 10), cs.GetLatestHeight())
	cons, _, err := f.store.GetConsensusState(ctx, testClientID, clienttypes.NewHeight(1, 10))
	require.NoError(t, err)
	assert.True(t, cons.GetTimestamp().Equal(genesisTime), "consensus state must not be overwritten")

	ev := <-events
	misbehaviour, ok := ev.(*core.MisbehaviourEvent)
	require.True(t, ok)
	assert.Equal(t, testClientID, misbehaviour.ClientID)
	assert.Equal(t, clienttypes.NewHeight(1, 10), misbehaviour.Height)

	// no update is accepted once frozen
	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(5*time.Second))
	require.ErrorIs(t, f.handler.HandleUpdate(ctx, testClientID, header), core.ErrClientIsFrozen)
	assert.Empty(t, events)
}

func TestHandleUpdateTimeMonotonicity(t *testing.T) {
	f := newUpdateClientFixture(t)
	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime)
	require.NoError(t, f.handler.HandleUpdate(context.Background(), testClientID, header))
	assert.True(t, f.clientState(t).IsFrozen())
	assert.Equal(t, 1, f.store.ConsensusStateCount(testClientID))
}

func TestHandleUpdateIdempotent(t *testing.T) {
	f := newUpdateClientFixture(t)
	ctx := context.Background()
	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(5*time.Second))
	require.NoError(t, f.handler.HandleUpdate(ctx, testClientID, header))
	require.NoError(t, f.handler.HandleUpdate(ctx, testClientID, header))

	assert.False(t, f.clientState(t).IsFrozen())
	assert.Equal(t, 2, f.store.ConsensusStateCount(testClientID))
}

func TestClientStatusActive(t *testing.T) {
	f := newUpdateClientFixture(t)
	f.clock.set(genesisTime.Add(100 * time.Second))
	status, err := f.handler.ClientStatus(context.Background(), testClientID)
	require.NoError(t, err)
	assert.Equal(t, core.Active, status)

	f.clock.set(genesisTime.Add(100*time.Second + time.Nanosecond))
	status, err = f.handler.ClientStatus(context.Background(), testClientID)
	require.NoError(t, err)
	assert.Equal(t, core.Expired, status)

	header := clientmock.NewHeader(clienttypes.NewHeight(1, 11), genesisTime.Add(5*time.Second))
	require.ErrorIs(t, f.handler.HandleUpdate(context.Background(), testClientID, header), core.ErrClientIsExpired)
	assert.Zero(t, f.verifier.calls.Load())
}

func TestHandleUpdateConcurrent(t *testing.T) {
	f := newUpdateClientFixture(t)
	const n = 10

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		header := clientmock.NewHeader(clienttypes.NewHeight(1, uint64(10+i)), genesisTime.Add(time.Duration(i)*time.Second))
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.handler.HandleUpdate(context.Background(), testClientID, header)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, clienttypes.NewHeight(1, 10+n), f.clientState(t).GetLatestHeight())
	assert.Equal(t, n+1, f.store.ConsensusStateCount(testClientID))
}
