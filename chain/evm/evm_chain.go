package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// ConfirmFunc waits for the transaction to be mined and returns its block number. A reverted
// transaction is an error.
type ConfirmFunc func(ctx context.Context, tx *types.Transaction) (uint64, error)

// OnchainClient is an EVM chain client.
// For EVM specifically we can use existing geth interface to abstract chain clients.
type OnchainClient interface {
	bind.ContractBackend
	bind.DeployBackend

	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
}

// Chain is a connected EVM chain behind a messaging endpoint.
type Chain struct {
	Endpoint topology.Endpoint
	// Selector is the chain-selectors id of the chain. Zero when the chain is not registered there.
	Selector uint64

	Client OnchainClient
	// Note the Sign function can be abstract supporting a variety of key storage mechanisms.
	DeployerKey *bind.TransactOpts
	Confirm     ConfirmFunc
}

// ChainSelector returns the chain selector of the chain
func (c Chain) ChainSelector() uint64 {
	return c.Selector
}

// String returns chain name and endpoint id "<name> (<eid>)"
func (c Chain) String() string {
	return fmt.Sprintf("%s (%d)", c.Name(), c.Endpoint.ID)
}

// Name returns the chain-selectors name of the chain, falling back to the endpoint name.
func (c Chain) Name() string {
	if c.Selector != 0 {
		if chain, ok := chainsel.ChainBySelector(c.Selector); ok && chain.Name != "" {
			return chain.Name
		}
	}
	if c.Endpoint.Name != "" {
		return c.Endpoint.Name
	}

	return c.Endpoint.ID.String()
}

// From returns the address of the deployer key, or the zero address when the chain is read only.
func (c Chain) From() common.Address {
	if c.DeployerKey == nil {
		return common.Address{}
	}

	return c.DeployerKey.From
}
