package network

import (
	"errors"
	"fmt"
	"os"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// NetworkType represents the type of network, which can either be mainnet or testnet.
type NetworkType string

const (
	NetworkTypeMainnet NetworkType = "mainnet"
	NetworkTypeTestnet NetworkType = "testnet"
)

// Network represents the connection details of one messaging endpoint.
type Network struct {
	EID           topology.EndpointID `yaml:"eid"`
	Name          string              `yaml:"name"`
	ChainID       uint64              `yaml:"chain_id"`
	Type          NetworkType         `yaml:"type"`
	BlockExplorer BlockExplorer       `yaml:"block_explorer"`
	// RPCEnv names an environment variable whose value, when set, is dialed before RPCs.
	RPCEnv string `yaml:"rpc_env,omitempty"`
	RPCs   []RPC  `yaml:"rpcs"`
}

// Validate validates the network configuration to ensure that all required fields are set.
func (n *Network) Validate() error {
	if n.Type == "" {
		return errors.New("type is required")
	}

	if n.EID == 0 {
		return errors.New("endpoint id is required")
	}

	if n.ChainID == 0 {
		return errors.New("chain id is required")
	}

	if len(n.RPCs) == 0 && n.RPCEnv == "" {
		return errors.New("at least one RPC is required")
	}

	return nil
}

// Endpoint returns the topology endpoint served by the network.
func (n *Network) Endpoint() topology.Endpoint {
	return topology.Endpoint{ID: n.EID, Name: n.Name, ChainID: n.ChainID}
}

// EVMRPCs returns the RPCs in dial order. The RPC named by RPCEnv comes first when the variable
// is set.
func (n *Network) EVMRPCs() []evm.RPC {
	rpcs := make([]evm.RPC, 0, len(n.RPCs)+1)
	if n.RPCEnv != "" {
		if url := os.Getenv(n.RPCEnv); url != "" {
			rpcs = append(rpcs, evm.RPC{Name: n.RPCEnv, URL: url})
		}
	}
	for i, rpc := range n.RPCs {
		name := rpc.RPCName
		if name == "" {
			name = fmt.Sprintf("%s-rpc-%d", n.Name, i)
		}
		rpcs = append(rpcs, evm.RPC{Name: name, URL: rpc.HTTPURL})
	}

	return rpcs
}

// RPCConfig returns the configuration used to dial the network.
func (n *Network) RPCConfig() evm.RPCConfig {
	return evm.RPCConfig{Endpoint: n.Endpoint(), RPCs: n.EVMRPCs()}
}

// RPC represents an RPC configuration in the flattened structure
type RPC struct {
	RPCName string `yaml:"rpc_name"`
	HTTPURL string `yaml:"http_url"`
}

// BlockExplorer represents a block explorer configuration in the flattened structure
type BlockExplorer struct {
	Type   string `yaml:"type"`
	APIKey string `yaml:"api_key"`
	URL    string `yaml:"url"`
}
