package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/addressbook"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
)

var (
	rolesShort = "Grant the token roles the adapter needs"

	rolesLong = text.LongDesc(`
		Grants every listed role on the WXRPToken of the endpoint to the grantee, by default the
		WXRPMintBurnOFTAdapter of the same endpoint. Roles the grantee already holds are skipped,
		so the command can be run again after an interruption.
	`)

	rolesExample = text.Examples(`
		# Grant MINTER_ROLE and BURNER_ROLE to the adapter on Sepolia
		omnictl provision roles --endpoint 40161 --addresses addresses.json --execute

		# Only check which roles are missing
		omnictl provision roles --endpoint 40161 --addresses addresses.json --roles MINTER_ROLE
	`)
)

type rolesFlags struct {
	grantee string
	roles   []string
}

// newRolesCmd creates the "roles" subcommand.
func newRolesCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roles",
		Short:   rolesShort,
		Long:    rolesLong,
		Example: rolesExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseRunFlags(cmd)
			if err != nil {
				return err
			}

			return runRoles(cmd, cfg, f, rolesFlags{
				grantee: flags.MustString(cmd.Flags().GetString("grantee")),
				roles:   flags.MustStringSlice(cmd.Flags().GetStringSlice("roles")),
			})
		},
	}

	runFlagsOn(cmd)
	cmd.Flags().String("grantee", "", "Address receiving the roles (default: the adapter in the address book)")
	cmd.Flags().StringSlice("roles", []string{"MINTER_ROLE", "BURNER_ROLE"}, "Role names or 32-byte role ids")

	return cmd
}

// runRoles executes the roles command logic.
func runRoles(cmd *cobra.Command, cfg Config, f runFlags, rf rolesFlags) error {
	if len(rf.roles) == 0 {
		return errors.New("at least one role is required")
	}
	roles := make([]common.Hash, 0, len(rf.roles))
	for _, r := range rf.roles {
		role, err := migration.ParseRole(r)
		if err != nil {
			return err
		}
		roles = append(roles, role)
	}

	s, err := openSession(cmd, cfg, f)
	if err != nil {
		return err
	}

	grantee, err := s.grantee(rf.grantee)
	if err != nil {
		return err
	}
	token, err := s.contract(addressbook.TokenContract)
	if err != nil {
		return err
	}

	target := migration.Target{Kind: migration.KindAdminRole, Endpoint: f.endpoint, Contract: token}
	ledger, err := s.deps.LedgerFactory(s.chain, target, common.Address{}, s.lggr)
	if err != nil {
		return err
	}

	out, err := migration.Provision(s.bundle, migration.ProvisionDeps{
		Ledger:            ledger,
		Gate:              s.gate,
		Mode:              f.mode(),
		SettlementTimeout: s.cfg.Migration.SettlementTimeout,
		ReadAttempts:      s.cfg.Migration.ReadAttempts,
	}, target, grantee, roles...)

	if werr := s.writeReports(cmd); werr != nil {
		s.lggr.Errorw("Failed to write reports", "error", werr)
	}
	for _, m := range out.Mutations {
		cmd.Printf("  %s  %s\n", m.Ref, m.Description)
	}
	printRoles(cmd, "Already held", out.AlreadyHeld)
	printRoles(cmd, "Granted", out.Granted)
	for _, p := range out.Planned {
		cmd.Printf("Would %s\n", p)
	}

	return err
}

// grantee returns the override or the adapter of the endpoint.
func (s *session) grantee(override string) (common.Address, error) {
	if override != "" {
		if !common.IsHexAddress(override) {
			return common.Address{}, fmt.Errorf("invalid grantee address %q", override)
		}

		return common.HexToAddress(override), nil
	}

	return s.contract(addressbook.AdapterContract)
}

func printRoles(cmd *cobra.Command, label string, roles []string) {
	if len(roles) > 0 {
		cmd.Printf("%s: %s\n", label, strings.Join(roles, ", "))
	}
}
