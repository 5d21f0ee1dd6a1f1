// Package commands provides the CLI command groups of omnictl.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	cmds := commands.New(lggr)
//	root.AddCommand(
//	    cmds.Topology(commands.TopologyConfig{}),
//	    cmds.Migrate(commands.MigrateConfig{}),
//	    cmds.Provision(commands.MigrateConfig{}),
//	)
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/wxrp-bridge/omnichain-deployments/pkg/commands/migrate"
//
//	cmd, err := migrate.NewCommand(migrate.Config{
//	    Logger: lggr,
//	    Deps:   migrate.Deps{...}, // inject fakes for testing
//	})
package commands

import (
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/migrate"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/topology"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
// The logger will be shared across all commands created by this factory.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// TopologyConfig holds the optional dependencies of the topology commands.
type TopologyConfig struct {
	Deps topology.Deps
}

// MigrateConfig holds the optional dependencies of the migrate and provision commands.
type MigrateConfig struct {
	Deps migrate.Deps
}

// Topology creates the topology command group.
func (c *Commands) Topology(cfg TopologyConfig) (*cobra.Command, error) {
	return topology.NewCommand(topology.Config{Logger: c.lggr, Deps: cfg.Deps})
}

// Migrate creates the migrate command group.
func (c *Commands) Migrate(cfg MigrateConfig) (*cobra.Command, error) {
	return migrate.NewCommand(migrate.Config{Logger: c.lggr, Deps: cfg.Deps})
}

// Provision creates the provision command group.
func (c *Commands) Provision(cfg MigrateConfig) (*cobra.Command, error) {
	return migrate.NewProvisionCommand(migrate.Config{Logger: c.lggr, Deps: cfg.Deps})
}

// AddAll registers every command group on root.
func (c *Commands) AddAll(root *cobra.Command) error {
	topo, err := c.Topology(TopologyConfig{})
	if err != nil {
		return err
	}
	mig, err := c.Migrate(MigrateConfig{})
	if err != nil {
		return err
	}
	prov, err := c.Provision(MigrateConfig{})
	if err != nil {
		return err
	}

	root.AddCommand(topo, mig, prov)

	return nil
}
