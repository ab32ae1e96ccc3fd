package core

import (
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// MsgID represents an identifier of `sdk.Msg` that has been sent to a chain by `Chain::SendMsgs`.
type MsgID interface {
	IsMsgID()
}

// MsgResult represents a execution result of `sdk.Msg` that has been sent to a chain by `Chain::SendMsgs`.
type MsgResult interface {
	// BlockHeight returns the height that the message is included.
	BlockHeight() clienttypes.Height

	// Status returns true if the execution of the message is successful.
	// If it fails, this function returns false with the second return value that provides additional information.
	Status() (bool, string)

	// Events returns events emitted by the message.
	Events() []MsgEventLog
}

// MsgEventLog represents an event emitted by `sdk.Msg` that has been sent to a chain by `Chain::SendMsgs`.
type MsgEventLog interface {
	isMsgEventLog()
}

var (
	_ MsgEventLog = (*EventUpdateClient)(nil)
	_ MsgEventLog = (*EventRecvPacket)(nil)
	_ MsgEventLog = (*EventWriteAcknowledgement)(nil)
	_ MsgEventLog = (*EventAcknowledgePacket)(nil)
	_ MsgEventLog = (*EventTimeoutPacket)(nil)
)

func (*EventUpdateClient) isMsgEventLog()         {}
func (*EventRecvPacket) isMsgEventLog()           {}
func (*EventWriteAcknowledgement) isMsgEventLog() {}
func (*EventAcknowledgePacket) isMsgEventLog()    {}
func (*EventTimeoutPacket) isMsgEventLog()        {}

// EventUpdateClient is an implementation of `MsgEventLog` that notifies the update of a client
type EventUpdateClient struct {
	ClientID        string
	ConsensusHeight clienttypes.Height
}

// EventRecvPacket is an implementation of `MsgEventLog` that notifies the receipt of a packet
type EventRecvPacket struct {
	Sequence         uint64
	DstPort          string
	DstChannel       string
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp time.Time
	Data             []byte
}

// EventWriteAcknowledgement is an implementation of `MsgEventLog` that notifies the writing of a packet acknowledgement
type EventWriteAcknowledgement struct {
	Sequence        uint64
	DstPort         string
	DstChannel      string
	Acknowledgement []byte
}

// EventAcknowledgePacket is an implementation of `MsgEventLog` that notifies the receipt of a packet acknowledgement
type EventAcknowledgePacket struct {
	Sequence         uint64
	SrcPort          string
	SrcChannel       string
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp time.Time
}

// EventTimeoutPacket is an implementation of `MsgEventLog` that notifies the timeout of a packet
type EventTimeoutPacket struct {
	Sequence   uint64
	SrcPort    string
	SrcChannel string
}
