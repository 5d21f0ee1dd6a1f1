package network

import (
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// Defaults returns the networks the token is deployed to. Each public RPC can be replaced through
// the environment variable named in RPCEnv.
func Defaults() *Config {
	return NewConfig([]Network{
		{
			EID:           topology.EndpointEthereumMainnet,
			Name:          "ethereum-mainnet",
			ChainID:       1,
			Type:          NetworkTypeMainnet,
			BlockExplorer: BlockExplorer{Type: "etherscan", URL: "https://etherscan.io"},
			RPCEnv:        "RPC_URL_ETHEREUM",
			RPCs:          []RPC{{RPCName: "tenderly", HTTPURL: "https://eth-mainnet.gateway.tenderly.co"}},
		},
		{
			EID:           topology.EndpointHyperliquidMainnet,
			Name:          "hyperliquid-mainnet",
			ChainID:       999,
			Type:          NetworkTypeMainnet,
			BlockExplorer: BlockExplorer{Type: "etherscan", URL: "https://hyperevmscan.io"},
			RPCEnv:        "RPC_URL_HYPEREVM",
			RPCs:          []RPC{{RPCName: "hyperliquid", HTTPURL: "https://rpc.hyperliquid.xyz/evm"}},
		},
		{
			EID:           topology.EndpointSepoliaTestnet,
			Name:          "sepolia-testnet",
			ChainID:       11155111,
			Type:          NetworkTypeTestnet,
			BlockExplorer: BlockExplorer{Type: "etherscan", URL: "https://sepolia.etherscan.io"},
			RPCEnv:        "RPC_URL_ETHEREUM_TESTNET",
			RPCs:          []RPC{{RPCName: "tenderly", HTTPURL: "https://eth-sepolia.gateway.tenderly.co"}},
		},
		{
			EID:           topology.EndpointHyperliquidTestnet,
			Name:          "hyperliquid-testnet",
			ChainID:       998,
			Type:          NetworkTypeTestnet,
			BlockExplorer: BlockExplorer{Type: "etherscan", URL: "https://testnet.purrsec.com"},
			RPCEnv:        "RPC_URL_HYPEREVM_TESTNET",
			RPCs:          []RPC{{RPCName: "hyperliquid", HTTPURL: "https://rpc.hyperliquid-testnet.xyz/evm"}},
		},
	})
}
