package topology

import (
	"fmt"
	"strconv"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// EndpointID is the messaging-layer identifier of a chain (the endpoint id, not the EVM chain id).
type EndpointID uint32

// Well known endpoint ids.
const (
	EndpointEthereumMainnet    EndpointID = 30101
	EndpointHyperliquidMainnet EndpointID = 30367
	EndpointSepoliaTestnet     EndpointID = 40161
	EndpointHyperliquidTestnet EndpointID = 40362
)

// String returns the decimal form of the id.
func (id EndpointID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseEndpointID parses a decimal endpoint id.
func ParseEndpointID(s string) (EndpointID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid endpoint id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid endpoint id %q: must be non-zero", s)
	}

	return EndpointID(v), nil
}

// Endpoint is one chain participating in the messaging topology.
type Endpoint struct {
	ID      EndpointID `json:"eid" yaml:"eid" toml:"eid"`
	Name    string     `json:"name" yaml:"name" toml:"name"`
	ChainID uint64     `json:"chainId" yaml:"chain_id" toml:"chain_id"`
}

// String returns "<name> (<eid>)".
func (e Endpoint) String() string {
	return fmt.Sprintf("%s (%d)", e.Name, e.ID)
}

// ChainDetails resolves the chain-selectors record of the endpoint's EVM chain.
func (e Endpoint) ChainDetails() (chainsel.ChainDetails, error) {
	if e.ChainID == 0 {
		return chainsel.ChainDetails{}, fmt.Errorf("endpoint %s has no chain id", e)
	}

	details, err := chainsel.GetChainDetailsByChainIDAndFamily(
		strconv.FormatUint(e.ChainID, 10), chainsel.FamilyEVM,
	)
	if err != nil {
		return chainsel.ChainDetails{}, fmt.Errorf("endpoint %s: %w", e, err)
	}

	return details, nil
}

// Contract binds an endpoint to the name of the application contract deployed on it.
type Contract struct {
	Endpoint     EndpointID `json:"eid" yaml:"eid" toml:"eid"`
	ContractName string     `json:"contractName" yaml:"contract_name" toml:"contract_name"`
}

// String returns "<contract>@<eid>".
func (c Contract) String() string {
	return fmt.Sprintf("%s@%d", c.ContractName, c.Endpoint)
}
