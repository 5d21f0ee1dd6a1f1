// Package migrate provides CLI commands that move privileged control of the bridge contracts
// from the operating signer to their final holders.
package migrate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/addressbook"
	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/chain/evm/ledger"
	"github.com/wxrp-bridge/omnichain-deployments/chain/evm/provider"
	config "github.com/wxrp-bridge/omnichain-deployments/config/env"
	"github.com/wxrp-bridge/omnichain-deployments/config/network"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/operations"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// ConfigLoaderFunc loads the runtime configuration.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// NetworksLoaderFunc loads the network manifests.
type NetworksLoaderFunc func(paths []string) (*network.Config, error)

// AddressBookLoaderFunc loads the address book.
type AddressBookLoaderFunc func(path string) (*addressbook.AddressBook, error)

// ProfileResolverFunc resolves a preset name or profile set file.
type ProfileResolverFunc func(nameOrPath string) (topology.ProfileSet, error)

// ChainLoaderFunc connects to the chain of a network with the configured deployer key.
type ChainLoaderFunc func(ctx context.Context, lggr logger.Logger, n network.Network, cfg *config.Config) (evm.Chain, error)

// LedgerFactoryFunc binds the capability ledger of a target. A non-zero proxy must be
// administered by an ownership target.
type LedgerFactoryFunc func(
	chain evm.Chain, target migration.Target, proxy common.Address, lggr logger.Logger,
) (migration.CapabilityLedger, error)

// GateFactoryFunc returns the interactive approval gate of a command.
type GateFactoryFunc func(cmd *cobra.Command) migration.ConfirmationGate

// ReportWriterFunc stores the operation reports of a run.
type ReportWriterFunc func(path string, reports []operations.Report[any, any]) error

// defaultNetworksLoader loads the manifests, expanding environment variables in RPC URLs.
func defaultNetworksLoader(paths []string) (*network.Config, error) {
	return network.Load(paths, network.WithHTTPURLTransformer(os.ExpandEnv))
}

// defaultChainLoader dials the network's RPCs with the deployer key of cfg.
func defaultChainLoader(ctx context.Context, lggr logger.Logger, n network.Network, cfg *config.Config) (evm.Chain, error) {
	if cfg.Onchain.EVM.DeployerKey == "" {
		return evm.Chain{}, fmt.Errorf("no deployer key configured: set ONCHAIN_EVM_DEPLOYER_KEY or onchain.evm.deployer_key")
	}

	var genOpts []provider.GeneratorOption
	if cfg.Onchain.EVM.GasLimit > 0 {
		genOpts = append(genOpts, provider.WithGasLimit(cfg.Onchain.EVM.GasLimit))
	}

	p := provider.NewRPCChainProvider(n.Endpoint(), provider.RPCChainProviderConfig{
		DeployerTransactorGen: provider.TransactorFromRaw(cfg.Onchain.EVM.DeployerKey, genOpts...),
		RPCs:                  n.EVMRPCs(),
		ConfirmFunctor: provider.ConfirmFuncGeth(
			cfg.Migration.SettlementTimeout, provider.WithTickInterval(cfg.Migration.ConfirmTick),
		),
		Logger: lggr,
	})

	return p.Initialize(ctx)
}

// defaultLedgerFactory binds the target contract with the on-chain ledger.
func defaultLedgerFactory(
	chain evm.Chain, target migration.Target, proxy common.Address, lggr logger.Logger,
) (migration.CapabilityLedger, error) {
	opts := []ledger.Option{ledger.WithLogger(lggr)}
	if proxy != (common.Address{}) {
		opts = append(opts, ledger.WithProxyAdminCheck(proxy))
	}

	l, err := ledger.New(chain, target, opts...)
	if err != nil {
		return nil, err
	}

	return l, nil
}

// defaultGateFactory prompts on the command's input and output streams.
func defaultGateFactory(cmd *cobra.Command) migration.ConfirmationGate {
	return NewPromptGate(io.NopCloser(cmd.InOrStdin()), nopWriteCloser{cmd.OutOrStdout()})
}

// defaultReportWriter writes the reports as an indented JSON array.
func defaultReportWriter(path string, reports []operations.Report[any, any]) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return operations.WriteReports(f, operations.NewMemoryReporter(operations.WithReports(reports)))
}

// Deps holds the injectable dependencies for migration commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the runtime configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// NetworksLoader loads the network manifests.
	// Default: network.Load with environment expansion of RPC URLs
	NetworksLoader NetworksLoaderFunc

	// AddressBookLoader loads the address book.
	// Default: addressbook.Load
	AddressBookLoader AddressBookLoaderFunc

	// ProfileResolver resolves the profile set holding the final holders.
	// Default: topology.ResolveProfileSet
	ProfileResolver ProfileResolverFunc

	// ChainLoader connects to the chain.
	// Default: provider.RPCChainProvider
	ChainLoader ChainLoaderFunc

	// LedgerFactory binds the capability ledger.
	// Default: ledger.New
	LedgerFactory LedgerFactoryFunc

	// GateFactory creates the interactive approval gate used without --yes.
	// Default: PromptGate
	GateFactory GateFactoryFunc

	// ReportWriter stores the reports for --report-file.
	// Default: JSON file
	ReportWriter ReportWriterFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.NetworksLoader == nil {
		d.NetworksLoader = defaultNetworksLoader
	}
	if d.AddressBookLoader == nil {
		d.AddressBookLoader = addressbook.Load
	}
	if d.ProfileResolver == nil {
		d.ProfileResolver = topology.ResolveProfileSet
	}
	if d.ChainLoader == nil {
		d.ChainLoader = defaultChainLoader
	}
	if d.LedgerFactory == nil {
		d.LedgerFactory = defaultLedgerFactory
	}
	if d.GateFactory == nil {
		d.GateFactory = defaultGateFactory
	}
	if d.ReportWriter == nil {
		d.ReportWriter = defaultReportWriter
	}
}
