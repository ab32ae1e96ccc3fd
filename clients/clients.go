// Package clients defines how a light client type plugs into the client stores and the update-client state machine.
package clients

import (
	"context"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"

	"github.com/hyperledger-labs/yui-relay-core/core"
	"github.com/hyperledger-labs/yui-relay-core/store"
)

// StateReader is the read access to a client store that verifiers need to detect misbehaviour
type StateReader interface {
	core.ClientReader
	core.ConsensusStateReader
}

// LightClient is the implementation of a client type
type LightClient interface {
	// ClientType returns the type tag of the client states
	ClientType() string

	// StateCodec returns the codec used to persist the states
	StateCodec() store.StateCodec

	// NewVerifier returns a header verifier that reads stored states from `reader`
	NewVerifier(reader StateReader, clock core.HostClock) core.HeaderVerifier

	// DecodeClientState parses a client state in JSON
	DecodeClientState(bz []byte) (core.ClientState, error)

	// DecodeConsensusState parses a consensus state in JSON
	DecodeConsensusState(bz []byte) (core.ConsensusState, error)

	// DecodeHeader parses a header in JSON
	DecodeHeader(bz []byte) (core.ClientHeader, error)
}

// Codecs returns the state codecs of `lcs` keyed by client type
func Codecs(lcs ...LightClient) map[string]store.StateCodec {
	codecs := make(map[string]store.StateCodec, len(lcs))
	for _, lc := range lcs {
		codecs[lc.ClientType()] = lc.StateCodec()
	}
	return codecs
}

// MonotonicTime returns false if `timestamp` at `height` is not strictly between the timestamps
// of the consensus states stored right below and right above `height`.
func MonotonicTime(ctx context.Context, reader core.ConsensusStateReader, clientID string, height clienttypes.Height, timestamp time.Time) (bool, error) {
	prev, found, err := reader.GetPreviousConsensusState(ctx, clientID, height)
	if err != nil {
		return false, err
	} else if found && !prev.GetTimestamp().Before(timestamp) {
		return false, nil
	}
	next, found, err := reader.GetNextConsensusState(ctx, clientID, height)
	if err != nil {
		return false, err
	} else if found && !next.GetTimestamp().After(timestamp) {
		return false, nil
	}
	return true, nil
}
