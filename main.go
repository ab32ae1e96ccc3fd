package main

import (
	"log"

	chainmock "github.com/hyperledger-labs/yui-relay-core/chains/mock/module"
	clientmock "github.com/hyperledger-labs/yui-relay-core/clients/mock/module"
	tendermint "github.com/hyperledger-labs/yui-relay-core/clients/tendermint/module"
	"github.com/hyperledger-labs/yui-relay-core/cmd"
	provermock "github.com/hyperledger-labs/yui-relay-core/provers/mock/module"
)

func main() {
	if err := cmd.Execute(
		chainmock.Module{},
		provermock.Module{},
		clientmock.Module{},
		tendermint.Module{},
	); err != nil {
		log.Fatal(err)
	}
}
