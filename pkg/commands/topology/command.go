package topology

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	topologyShort = "Messaging topology operations"

	topologyLong = text.LongDesc(`
		Commands for deriving the cross-chain messaging topology of the token adapters.

		The topology is computed from a profile set: the endpoints, their confirmation depths,
		enforced options, owners and the pool of validators.
	`)
)

// Config holds the configuration for topology commands.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Deps holds optional dependencies that can be overridden.
	// If fields are nil, production defaults are used.
	Deps Deps
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	if c.Logger == nil {
		return errors.New("topology.Config: missing required fields: Logger")
	}

	return nil
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

// NewCommand creates a new topology command with all subcommands.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()

	cmd := &cobra.Command{
		Use:   "topology",
		Short: topologyShort,
		Long:  topologyLong,
	}

	cmd.AddCommand(newGenerateCmd(cfg))
	cmd.AddCommand(newShowCmd(cfg))

	return cmd, nil
}

// loadRegistry resolves the profile set and builds its registry.
func loadRegistry(cfg Config, profiles string) (*topology.Registry, topology.ProfileSet, error) {
	set, err := cfg.deps().ProfileResolver(profiles)
	if err != nil {
		return nil, topology.ProfileSet{}, fmt.Errorf("failed to load profile set %q: %w", profiles, err)
	}

	reg, err := topology.NewRegistry(set)
	if err != nil {
		return nil, topology.ProfileSet{}, fmt.Errorf("invalid profile set %q: %w", profiles, err)
	}

	return reg, set, nil
}

// contractsOf returns the contracts of the set, or the adapter on every endpoint when the set
// lists none.
func contractsOf(reg *topology.Registry, set topology.ProfileSet) []topology.Contract {
	if len(set.Contracts) > 0 {
		return set.Contracts
	}

	contracts := make([]topology.Contract, 0, len(set.Endpoints))
	for _, ep := range reg.Endpoints() {
		contracts = append(contracts, topology.Contract{Endpoint: ep.ID, ContractName: topology.AdapterContractName})
	}

	return contracts
}
