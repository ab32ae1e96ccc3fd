package core

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace of the errors registered by this package.
const ModuleName = "relay"

// Light client errors
var (
	ErrClientIsFrozen            = errorsmod.Register(ModuleName, 2, "client is frozen")
	ErrClientIsExpired           = errorsmod.Register(ModuleName, 3, "client is expired")
	ErrClientNotFound            = errorsmod.Register(ModuleName, 4, "client not found")
	ErrConsensusStateNotFound    = errorsmod.Register(ModuleName, 5, "consensus state not found")
	ErrInvalidClientHeader       = errorsmod.Register(ModuleName, 6, "invalid client header")
	ErrInvalidClientStateType    = errorsmod.Register(ModuleName, 7, "invalid client state type")
	ErrInvalidConsensusStateType = errorsmod.Register(ModuleName, 8, "invalid consensus state type")
)

// Packet relay errors
var (
	ErrTimeoutNotReached      = errorsmod.Register(ModuleName, 20, "packet timeout not reached")
	ErrPacketAlreadyReceived  = errorsmod.Register(ModuleName, 21, "packet already received")
	ErrPacketAlreadyClosed    = errorsmod.Register(ModuleName, 22, "packet commitment already cleared")
	ErrNextSequenceMismatch   = errorsmod.Register(ModuleName, 23, "packet is not the next sequence to receive")
	ErrHeightNotFinalized     = errorsmod.Register(ModuleName, 24, "height is not finalized")
	ErrInvalidChannelOrdering = errorsmod.Register(ModuleName, 25, "invalid channel ordering")
)

// Batch errors
var (
	// ErrBatchTransport indicates that a batch never reached a consumer or its reply was lost.
	// Transport errors can be retried by the caller.
	ErrBatchTransport      = errorsmod.Register(ModuleName, 40, "batch transport failure")
	ErrResultAlreadySent   = errorsmod.Register(ModuleName, 41, "batch result already sent")
	ErrMsgExecutionFailed  = errorsmod.Register(ModuleName, 42, "message execution failed")
	ErrMsgResultMismatched = errorsmod.Register(ModuleName, 43, "number of message results does not match")
)

// Path errors
var (
	ErrInvalidPath       = errorsmod.Register(ModuleName, 60, "invalid path")
	ErrPathNotFound      = errorsmod.Register(ModuleName, 61, "path not found")
	ErrPathAlreadyExists = errorsmod.Register(ModuleName, 62, "path already exists")
)
