package provider

import (
	"math/big"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// Defines standard variables for a test chain.
var (
	testEndpoint = topology.Endpoint{
		ID:      topology.EndpointSepoliaTestnet,
		Name:    "sepolia",
		ChainID: 11155111,
	}
	testChainIDBig = new(big.Int).SetUint64(testEndpoint.ChainID)
)
