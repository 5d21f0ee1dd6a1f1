package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Optional: A generator for the deployer key. Without one the chain is read only and every
	// mutation fails.
	DeployerTransactorGen TransactorGenerator
	// Required: At least one RPC must be provided to connect to the EVM node.
	RPCs []evm.RPC
	// Required: ConfirmFunctor is a type that generates a confirmation function for transactions.
	// If in doubt, use ConfirmFuncGeth.
	ConfirmFunctor ConfirmFunctor
	// Optional: ClientOpts are additional options to configure the MultiClient used by the
	// RPCChainProvider.
	ClientOpts []func(client *evm.MultiClient)
	// Optional: Logger is the logger to use for the RPCChainProvider. If not provided, a default
	// logger will be used.
	Logger logger.Logger
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.ConfirmFunctor == nil {
		return errors.New("confirm functor is required")
	}
	if len(c.RPCs) == 0 {
		return errors.New("at least one RPC is required")
	}

	return nil
}

// RPCChainProvider is a chain provider that provides a chain that connects to an EVM node via RPC.
type RPCChainProvider struct {
	endpoint topology.Endpoint
	config   RPCChainProviderConfig

	chain *evm.Chain
}

// NewRPCChainProvider creates a new RPCChainProvider for the endpoint.
func NewRPCChainProvider(endpoint topology.Endpoint, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		endpoint: endpoint,
		config:   config,
	}
}

// Initialize connects to the endpoint's nodes and checks that they serve the endpoint's EVM chain.
func (p *RPCChainProvider) Initialize(ctx context.Context) (evm.Chain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.config.Logger == nil {
		lggr, err := logger.New()
		if err != nil {
			return evm.Chain{}, fmt.Errorf("failed to create default logger: %w", err)
		}
		p.config.Logger = lggr
	}

	if err := p.config.validate(); err != nil {
		return evm.Chain{}, fmt.Errorf("failed to validate provider config: %w", err)
	}
	if p.endpoint.ChainID == 0 {
		return evm.Chain{}, fmt.Errorf("endpoint %s has no chain id", p.endpoint)
	}

	client, err := evm.NewMultiClient(ctx, p.config.Logger, evm.RPCConfig{
		Endpoint: p.endpoint,
		RPCs:     p.config.RPCs,
	}, p.config.ClientOpts...)
	if err != nil {
		return evm.Chain{}, fmt.Errorf("failed to create multi-client: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return evm.Chain{}, fmt.Errorf("failed to read chain id of endpoint %s: %w", p.endpoint, err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != p.endpoint.ChainID {
		client.Close()
		return evm.Chain{}, fmt.Errorf("endpoint %s expects chain id %d but the rpc serves %s",
			p.endpoint, p.endpoint.ChainID, chainID)
	}

	c := evm.Chain{
		Endpoint: p.endpoint,
		Client:   client,
	}
	if details, err := chainsel.GetChainDetailsByChainIDAndFamily(
		strconv.FormatUint(p.endpoint.ChainID, 10), chainsel.FamilyEVM,
	); err == nil {
		c.Selector = details.ChainSelector
	}

	if p.config.DeployerTransactorGen != nil {
		c.DeployerKey, err = p.config.DeployerTransactorGen.Generate(chainID)
		if err != nil {
			client.Close()
			return evm.Chain{}, fmt.Errorf("failed to generate deployer key: %w", err)
		}
	}

	c.Confirm, err = p.config.ConfirmFunctor.Generate(p.endpoint, client, c.From())
	if err != nil {
		client.Close()
		return evm.Chain{}, fmt.Errorf("failed to generate confirm function: %w", err)
	}

	p.config.Logger.Infow("Connected to chain", "chain", c.String(), "rpcs", len(p.config.RPCs))
	p.chain = &c

	return c, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "EVM RPC Chain Provider"
}

// Chain returns the connected chain. You must call Initialize before using this method.
func (p *RPCChainProvider) Chain() evm.Chain {
	return *p.chain
}
