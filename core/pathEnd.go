package core

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// PathEnd represents the local connection identifiers for a relay path
// The path is set on the chain before performing operations
type PathEnd struct {
	ChainID      string `json:"chain-id" yaml:"chain-id" mapstructure:"chain-id"`
	ClientID     string `json:"client-id" yaml:"client-id" mapstructure:"client-id"`
	ConnectionID string `json:"connection-id" yaml:"connection-id" mapstructure:"connection-id"`
	ChannelID    string `json:"channel-id" yaml:"channel-id" mapstructure:"channel-id"`
	PortID       string `json:"port-id" yaml:"port-id" mapstructure:"port-id"`
	Order        string `json:"order" yaml:"order" mapstructure:"order"`
	Version      string `json:"version" yaml:"version" mapstructure:"version"`
}

func (pe PathEnd) String() string {
	return fmt.Sprintf("%s:cl(%s):co(%s):ch(%s):pt(%s)", pe.ChainID, pe.ClientID, pe.ConnectionID, pe.ChannelID, pe.PortID)
}

// Validate checks the ICS-24 identifiers and the channel ordering of the path end
func (pe *PathEnd) Validate() error {
	for _, id := range []struct {
		kind     string
		value    string
		validate func(string) error
	}{
		{"client", pe.ClientID, host.ClientIdentifierValidator},
		{"connection", pe.ConnectionID, host.ConnectionIdentifierValidator},
		{"channel", pe.ChannelID, host.ChannelIdentifierValidator},
		{"port", pe.PortID, host.PortIdentifierValidator},
	} {
		if err := id.validate(id.value); err != nil {
			return fmt.Errorf("invalid %s identifier on %s: %w", id.kind, pe.ChainID, err)
		}
	}
	switch pe.ChannelOrder() {
	case chantypes.ORDERED, chantypes.UNORDERED:
		return nil
	default:
		return errorsmod.Wrapf(ErrInvalidChannelOrdering, "%q on %s", pe.Order, pe.ChainID)
	}
}

// ChannelOrder returns the ordering of the channel
func (pe *PathEnd) ChannelOrder() chantypes.Order {
	return OrderFromString(strings.ToUpper(pe.Order))
}

// OrderFromString parses a string into a channel order byte
func OrderFromString(order string) chantypes.Order {
	switch order {
	case "UNORDERED":
		return chantypes.UNORDERED
	case "ORDERED":
		return chantypes.ORDERED
	default:
		return chantypes.NONE
	}
}

// UpdateClients creates a list of MsgUpdateClient for the client of this path end
func (pe *PathEnd) UpdateClients(dstHeaders []Header, signer sdk.AccAddress) ([]sdk.Msg, error) {
	var msgs []sdk.Msg
	for _, header := range dstHeaders {
		if header == nil {
			continue
		}
		if err := header.ValidateBasic(); err != nil {
			return nil, err
		}
		msg, err := clienttypes.NewMsgUpdateClient(
			pe.ClientID,
			header,
			signer.String(),
		)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// RecvPacket creates a MsgRecvPacket on the chain
func (pe *PathEnd) RecvPacket(packet chantypes.Packet, proof []byte, proofHeight clienttypes.Height, signer sdk.AccAddress) sdk.Msg {
	return chantypes.NewMsgRecvPacket(
		packet,
		proof,
		proofHeight,
		signer.String(),
	)
}

// RecvAcknowledgement creates a MsgAcknowledgement on the chain
func (pe *PathEnd) RecvAcknowledgement(packet chantypes.Packet, ack []byte, proof []byte, proofHeight clienttypes.Height, signer sdk.AccAddress) sdk.Msg {
	return chantypes.NewMsgAcknowledgement(
		packet,
		ack,
		proof,
		proofHeight,
		signer.String(),
	)
}

// Timeout creates a MsgTimeout on the chain
func (pe *PathEnd) Timeout(packet chantypes.Packet, nextSequenceRecv uint64, proof []byte, proofHeight clienttypes.Height, signer sdk.AccAddress) sdk.Msg {
	return chantypes.NewMsgTimeout(
		packet,
		nextSequenceRecv,
		proof,
		proofHeight,
		signer.String(),
	)
}
