package migrate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/addressbook"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
)

var (
	adminRoleShort = "Move DEFAULT_ADMIN_ROLE of the token to its final holder"

	adminRoleLong = text.LongDesc(`
		Grants DEFAULT_ADMIN_ROLE of the WXRPToken on the endpoint to the final holder, reads the
		grant back and then renounces the role of the operating signer. Each transaction asks for
		approval unless --yes is given.
	`)

	adminRoleExample = text.Examples(`
		# Show what would happen on HyperEVM testnet
		omnictl migrate admin-role --endpoint 40362 --addresses addresses.json

		# Execute on Ethereum, prompting before every transaction
		omnictl migrate admin-role --endpoint 30101 --addresses addresses.json --execute
	`)
)

// newAdminRoleCmd creates the "admin-role" subcommand.
func newAdminRoleCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "admin-role",
		Short:   adminRoleShort,
		Long:    adminRoleLong,
		Example: adminRoleExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseRunFlags(cmd)
			if err != nil {
				return err
			}

			return runAdminRole(cmd, cfg, f,
				flags.MustString(cmd.Flags().GetString("holder")),
				flags.MustString(cmd.Flags().GetString("profiles")),
			)
		},
	}

	runFlagsOn(cmd)
	holderFlagsOn(cmd)

	return cmd
}

// holderFlagsOn registers the flags selecting the final holder.
func holderFlagsOn(cmd *cobra.Command) {
	cmd.Flags().String("holder", "", "Final holder address (default: owner of the endpoint in the profile set)")
	cmd.Flags().StringP("profiles", "p", "",
		"Profile set holding the endpoint owner (default: preset matching the network type)")
}

// runAdminRole executes the admin-role command logic.
func runAdminRole(cmd *cobra.Command, cfg Config, f runFlags, holder, profiles string) error {
	s, err := openSession(cmd, cfg, f)
	if err != nil {
		return err
	}

	finalHolder, err := s.finalHolder(holder, profiles)
	if err != nil {
		return err
	}
	token, err := s.contract(addressbook.TokenContract)
	if err != nil {
		return err
	}

	target := migration.Target{
		Kind:     migration.KindAdminRole,
		Endpoint: f.endpoint,
		Contract: token,
		Role:     migration.DefaultAdminRole,
	}
	ledger, err := s.deps.LedgerFactory(s.chain, target, common.Address{}, s.lggr)
	if err != nil {
		return err
	}

	res, err := migration.NewOrchestrator(s.bundle, ledger, s.gate, s.migrationConfig()).
		Run(cmd.Context(), target, s.chain.From(), finalHolder)

	return s.finishMigration(cmd, "admin role", res, err)
}
