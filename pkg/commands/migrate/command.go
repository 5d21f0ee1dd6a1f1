package migrate

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

var (
	migrateShort = "Migrate privileged control to the final holders"

	migrateLong = text.LongDesc(`
		Commands for handing privileged control of the bridge contracts from the operating signer
		to the final holder configured for the endpoint.

		Every run re-reads the chain, so an interrupted migration is resumed by running the same
		command again. The signer never gives up control before the final holder's control is
		settled and read back. Without --execute a run only reports what it would do.
	`)

	provisionShort = "Provision access control roles"

	provisionLong = text.LongDesc(`
		Commands for granting the roles the bridge contracts need to operate.
	`)
)

// Config holds the configuration for migration commands.
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
		return errors.New("migrate.Config: missing required fields: Logger")
	}

	return nil
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

// NewCommand creates the migrate command with its admin-role and proxy-admin subcommands.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: migrateShort,
		Long:  migrateLong,
	}

	cmd.AddCommand(newAdminRoleCmd(cfg))
	cmd.AddCommand(newProxyAdminCmd(cfg))

	return cmd, nil
}

// NewProvisionCommand creates the provision command with its roles subcommand.
func NewProvisionCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()

	cmd := &cobra.Command{
		Use:   "provision",
		Short: provisionShort,
		Long:  provisionLong,
	}

	cmd.AddCommand(newRolesCmd(cfg))

	return cmd, nil
}

// runFlagsOn registers the flags shared by every command that talks to a chain.
func runFlagsOn(cmd *cobra.Command) {
	flags.Endpoint(cmd)
	flags.Networks(cmd)
	flags.Addresses(cmd)
	flags.Config(cmd)
	flags.Execute(cmd)
	flags.Yes(cmd)
	flags.ReportFile(cmd)
}
