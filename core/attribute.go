package core

import (
	"fmt"
	"slices"

	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	AttributeKeyChainID              = attribute.Key("chain_id")
	AttributeKeyClientID             = attribute.Key("client_id")
	AttributeKeyChannelID            = attribute.Key("channel_id")
	AttributeKeyPortID               = attribute.Key("port_id")
	AttributeKeyDirection            = attribute.Key("direction")
	AttributeKeyPath                 = attribute.Key("path")
	AttributeKeyPackage              = attribute.Key("package")
	AttributeKeySequence             = attribute.Key("sequence")
	AttributeKeyBatchSize            = attribute.Key("batch_size")
	AttributeKeyHeightRevisionNumber = attribute.Key("revision_number")
	AttributeKeyHeightRevisionHeight = attribute.Key("revision_height")
)

// AttributeGroup prefixes the given key to all attributes.
//
// For example, if the key is "foo" and the key of an attribute is "bar", the new key will be "foo.bar".
func AttributeGroup(key string, attributes ...attribute.KeyValue) []attribute.KeyValue {
	newAttrs := make([]attribute.KeyValue, 0, len(attributes))
	for _, attr := range attributes {
		newAttrs = append(newAttrs, attribute.KeyValue{
			Key:   attribute.Key(key + "." + string(attr.Key)),
			Value: attr.Value,
		})
	}
	return newAttrs
}

// heightAttributes converts a height to attributes.
// The attribute package does not support uint64, so both numbers are stringified.
func heightAttributes(height ibcexported.Height) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttributeKeyHeightRevisionNumber.String(fmt.Sprint(height.GetRevisionNumber())),
		AttributeKeyHeightRevisionHeight.String(fmt.Sprint(height.GetRevisionHeight())),
	}
}

func WithChainAttributes(chainID string) trace.SpanStartOption {
	return trace.WithAttributes(
		AttributeKeyChainID.String(chainID),
	)
}

func WithClientIDAttributes(chainID, clientID string) trace.SpanStartOption {
	return trace.WithAttributes(
		AttributeKeyChainID.String(chainID),
		AttributeKeyClientID.String(clientID),
	)
}

func WithChannelAttributes(c Chain) trace.SpanStartOption {
	return trace.WithAttributes(
		AttributeKeyChainID.String(c.ChainID()),
		AttributeKeyPortID.String(c.Path().PortID),
		AttributeKeyChannelID.String(c.Path().ChannelID),
	)
}

func WithChannelPairAttributes(src, dst Chain) trace.SpanStartOption {
	return trace.WithAttributes(slices.Concat(
		AttributeGroup("src",
			AttributeKeyChainID.String(src.ChainID()),
			AttributeKeyPortID.String(src.Path().PortID),
			AttributeKeyChannelID.String(src.Path().ChannelID),
		),
		AttributeGroup("dst",
			AttributeKeyChainID.String(dst.ChainID()),
			AttributeKeyPortID.String(dst.Path().PortID),
			AttributeKeyChannelID.String(dst.Path().ChannelID),
		),
	)...)
}
