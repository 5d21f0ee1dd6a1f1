package provider

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	// simChainID is the chain ID of every simulated EVM chain.
	simChainID = params.AllDevChainProtocolChanges.ChainID
	// prefundAmountWei is the balance of the deployer account, one million ether.
	prefundAmountWei = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether))
)

// SimChainProviderConfig holds the configuration to initialize the SimChainProvider.
type SimChainProviderConfig struct {
	// Optional: BlockTime configures the time between blocks being committed. By default blocks
	// are only committed when a transaction is confirmed.
	BlockTime time.Duration
}

// SimChainProvider serves an endpoint from go-ethereum's in memory simulated backend. Use it in
// tests only.
type SimChainProvider struct {
	t        *testing.T
	endpoint topology.Endpoint
	config   SimChainProviderConfig

	chain *evm.Chain
}

// NewSimChainProvider creates a new SimChainProvider for the endpoint.
func NewSimChainProvider(t *testing.T, endpoint topology.Endpoint, config SimChainProviderConfig) *SimChainProvider {
	t.Helper()

	return &SimChainProvider{
		t:        t,
		endpoint: endpoint,
		config:   config,
	}
}

// Initialize sets up the simulated chain with a prefunded deployer account. The returned chain's
// Confirm commits a block before waiting for the receipt.
func (p *SimChainProvider) Initialize(context.Context) (evm.Chain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	key, err := crypto.GenerateKey()
	require.NoError(p.t, err, "failed to generate deployer key")

	deployer, err := bind.NewKeyedTransactorWithChainID(key, simChainID)
	require.NoError(p.t, err)

	backend := simulated.NewBackend(types.GenesisAlloc{
		deployer.From: {Balance: prefundAmountWei},
	}, simulated.WithBlockGasLimit(50000000))
	backend.Commit() // Commit the genesis block

	if p.config.BlockTime > 0 {
		startAutoMine(p.t, backend, p.config.BlockTime)
	}

	client := NewSimClient(p.t, backend)
	geth, err := ConfirmFuncGeth(time.Minute, WithTickInterval(10*time.Millisecond)).
		Generate(p.endpoint, client, deployer.From)
	if err != nil {
		return evm.Chain{}, fmt.Errorf("failed to generate confirm function: %w", err)
	}

	p.chain = &evm.Chain{
		Endpoint:    p.endpoint,
		Client:      client,
		DeployerKey: deployer,
		Confirm: func(ctx context.Context, tx *types.Transaction) (uint64, error) {
			if tx != nil {
				client.Commit()
			}

			return geth(ctx, tx)
		},
	}

	return *p.chain, nil
}

// Name returns the name of the SimChainProvider.
func (*SimChainProvider) Name() string {
	return "Simulated EVM Chain Provider"
}

// Chain returns the simulated chain. You must call Initialize before using this method.
func (p *SimChainProvider) Chain() evm.Chain {
	return *p.chain
}

// startAutoMine commits a block every blockTime until the test is done.
func startAutoMine(t *testing.T, backend *simulated.Backend, blockTime time.Duration) {
	t.Helper()

	ctx := t.Context()
	ticker := time.NewTicker(blockTime)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				backend.Commit()
			case <-ctx.Done():
				return
			}
		}
	}()
}
