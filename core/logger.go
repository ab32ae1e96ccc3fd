package core

import (
	"github.com/hyperledger-labs/yui-relay-core/log"
)

func GetModuleLogger(moduleName string) *log.RelayLogger {
	return log.GetLogger().WithModule("core." + moduleName)
}

func GetChainLogger(chain Chain) *log.RelayLogger {
	return log.GetLogger().
		WithChain(chain.ChainID()).
		WithModule("core.chain")
}

func GetClientLogger(chainID, clientID string) *log.RelayLogger {
	return log.GetLogger().
		WithClient(chainID, clientID).
		WithModule("core.client")
}

func GetChannelPairLogger(src, dst Chain) *log.RelayLogger {
	srcPath, dstPath := src.Path(), dst.Path()
	return log.GetLogger().
		WithChannelPair(
			src.ChainID(), srcPath.PortID, srcPath.ChannelID,
			dst.ChainID(), dstPath.PortID, dstPath.ChannelID,
		).
		WithModule("core.channel")
}
