package migrate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/addressbook"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	proxyAdminShort = "Transfer ownership of the token ProxyAdmin to its final holder"

	proxyAdminLong = text.LongDesc(`
		Transfers ownership of the WXRPToken ProxyAdmin on the endpoint to the final holder and
		reads the new owner back. The run first checks that the token proxy listed in the address
		book is administered by this ProxyAdmin; a book without the token proxy is rejected.
	`)

	proxyAdminExample = text.Examples(`
		# Transfer the testnet ProxyAdmin without prompting
		omnictl migrate proxy-admin --endpoint 40161 --addresses addresses.json --execute --yes
	`)
)

// newProxyAdminCmd creates the "proxy-admin" subcommand.
func newProxyAdminCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proxy-admin",
		Short:   proxyAdminShort,
		Long:    proxyAdminLong,
		Example: proxyAdminExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseRunFlags(cmd)
			if err != nil {
				return err
			}

			return runProxyAdmin(cmd, cfg, f,
				flags.MustString(cmd.Flags().GetString("holder")),
				flags.MustString(cmd.Flags().GetString("profiles")),
			)
		},
	}

	runFlagsOn(cmd)
	holderFlagsOn(cmd)

	return cmd
}

// runProxyAdmin executes the proxy-admin command logic.
func runProxyAdmin(cmd *cobra.Command, cfg Config, f runFlags, holder, profiles string) error {
	s, err := openSession(cmd, cfg, f)
	if err != nil {
		return err
	}

	finalHolder, err := s.finalHolder(holder, profiles)
	if err != nil {
		return err
	}
	proxyAdmin, err := s.contract(addressbook.ProxyAdminContract)
	if err != nil {
		return err
	}

	proxy, err := s.contract(addressbook.ProxyContract)
	switch {
	case errors.Is(err, addressbook.ErrContractNotFound):
		return &topology.ConfigurationError{
			Endpoint: f.endpoint,
			Field:    "address_book",
			Reason:   fmt.Sprintf("%s is required to verify the proxy admin: %v", addressbook.ProxyContract, err),
		}
	case err != nil:
		return err
	}

	target := migration.Target{
		Kind:     migration.KindOwnership,
		Endpoint: f.endpoint,
		Contract: proxyAdmin,
	}
	ledger, err := s.deps.LedgerFactory(s.chain, target, proxy, s.lggr)
	if err != nil {
		return err
	}

	res, err := migration.NewOrchestrator(s.bundle, ledger, s.gate, s.migrationConfig()).
		Run(cmd.Context(), target, s.chain.From(), finalHolder)

	return s.finishMigration(cmd, "proxy admin", res, err)
}
