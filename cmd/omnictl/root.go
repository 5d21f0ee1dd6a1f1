package main

import (
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

var rootLong = text.LongDesc(`
	omnictl derives the messaging topology of the WXRP token adapters and hands privileged
	control of the deployed contracts to their final holders.

	Secrets and runtime settings are read from the --config file of each command and from the
	environment (ONCHAIN_EVM_DEPLOYER_KEY, MIGRATION_SETTLEMENT_TIMEOUT, LOG_LEVEL, ...).
`)

// newRootCmd builds the omnictl command tree.
func newRootCmd(lggr logger.Logger) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           "omnictl",
		Short:         "Cross-chain topology and privilege migration tooling",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := commands.New(lggr).AddAll(root); err != nil {
		return nil, err
	}

	return root, nil
}
