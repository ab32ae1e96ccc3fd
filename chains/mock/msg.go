package mock

import (
	"fmt"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"

	"github.com/hyperledger-labs/yui-relay-core/core"
)

// MsgID identifies a message by the block that includes it and its index in the block
type MsgID struct {
	Height uint64
	Index  int
}

var _ core.MsgID = (*MsgID)(nil)

func (*MsgID) IsMsgID() {}

func (id *MsgID) String() string {
	return fmt.Sprintf("%d/%d", id.Height, id.Index)
}

// MsgResult is the result of a message executed by the mock chain
type MsgResult struct {
	height clienttypes.Height
	status bool
	reason string
	events []core.MsgEventLog
}

var _ core.MsgResult = (*MsgResult)(nil)

func (r *MsgResult) BlockHeight() clienttypes.Height {
	return r.height
}

func (r *MsgResult) Status() (bool, string) {
	return r.status, r.reason
}

func (r *MsgResult) Events() []core.MsgEventLog {
	return r.events
}
