package migrate

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/addressbook"
	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	config "github.com/wxrp-bridge/omnichain-deployments/config/env"
	"github.com/wxrp-bridge/omnichain-deployments/config/network"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/operations"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

type runFlags struct {
	endpoint   topology.EndpointID
	networks   []string
	addresses  string
	config     string
	execute    bool
	yes        bool
	reportFile string
}

func parseRunFlags(cmd *cobra.Command) (runFlags, error) {
	eid, err := flags.GetEndpoint(cmd)
	if err != nil {
		return runFlags{}, err
	}

	return runFlags{
		endpoint:   eid,
		networks:   flags.MustStringSlice(cmd.Flags().GetStringSlice("networks")),
		addresses:  flags.MustString(cmd.Flags().GetString("addresses")),
		config:     flags.MustString(cmd.Flags().GetString("config")),
		execute:    flags.MustBool(cmd.Flags().GetBool("execute")),
		yes:        flags.MustBool(cmd.Flags().GetBool("yes")),
		reportFile: flags.MustString(cmd.Flags().GetString("report-file")),
	}, nil
}

func (f runFlags) mode() migration.Mode {
	if f.execute {
		return migration.ModeExecute
	}

	return migration.ModeDryRun
}

// session is everything a run needs on one endpoint.
type session struct {
	flags    runFlags
	deps     *Deps
	lggr     logger.Logger
	cfg      *config.Config
	network  network.Network
	book     *addressbook.AddressBook
	chain    evm.Chain
	reporter *operations.MemoryReporter
	bundle   operations.Bundle
	gate     migration.ConfirmationGate
}

// openSession loads the configuration, resolves the endpoint and connects to its chain.
func openSession(cmd *cobra.Command, c Config, f runFlags) (*session, error) {
	deps := c.deps()
	lggr := logger.With(logger.Named(c.Logger, "migrate"), "eid", f.endpoint)

	cfg, err := deps.ConfigLoader(f.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	networks, err := deps.NetworksLoader(f.networks)
	if err != nil {
		return nil, fmt.Errorf("failed to load networks: %w", err)
	}
	n, err := networks.NetworkByEndpoint(f.endpoint)
	if err != nil {
		return nil, err
	}

	book, err := deps.AddressBookLoader(f.addresses)
	if err != nil {
		return nil, err
	}

	chain, err := deps.ChainLoader(cmd.Context(), lggr, n, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", n.Endpoint(), err)
	}

	reporter := operations.NewMemoryReporter()
	gate := migration.AutoApprove()
	if !f.yes {
		gate = deps.GateFactory(cmd)
	}

	return &session{
		flags:    f,
		deps:     deps,
		lggr:     lggr,
		cfg:      cfg,
		network:  n,
		book:     book,
		chain:    chain,
		reporter: reporter,
		bundle:   operations.NewBundle(cmd.Context, lggr, reporter),
		gate:     gate,
	}, nil
}

// migrationConfig returns the orchestrator configuration of the run.
func (s *session) migrationConfig() migration.Config {
	return migration.Config{
		Mode:              s.flags.mode(),
		SettlementTimeout: s.cfg.Migration.SettlementTimeout,
		ReadAttempts:      s.cfg.Migration.ReadAttempts,
	}
}

// contract looks up the single address of typ on the session's endpoint.
func (s *session) contract(typ addressbook.ContractType) (common.Address, error) {
	return s.book.Search(s.flags.endpoint, typ)
}

// finalHolder returns the holder override, or the owner configured for the endpoint in the
// profile set. Without --profiles the preset matching the network type is used.
func (s *session) finalHolder(holder, profiles string) (common.Address, error) {
	if holder != "" {
		if !common.IsHexAddress(holder) {
			return common.Address{}, fmt.Errorf("invalid final holder address %q", holder)
		}

		return common.HexToAddress(holder), nil
	}

	if profiles == "" {
		profiles = string(s.network.Type)
	}
	set, err := s.deps.ProfileResolver(profiles)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to load profile set %q: %w", profiles, err)
	}
	reg, err := topology.NewRegistry(set)
	if err != nil {
		return common.Address{}, err
	}
	owner, err := reg.OwnerAddress(s.flags.endpoint)
	if err != nil {
		return common.Address{}, err
	}

	return common.HexToAddress(owner), nil
}

// writeReports stores the operation reports when --report-file is set.
func (s *session) writeReports(cmd *cobra.Command) error {
	if s.flags.reportFile == "" {
		return nil
	}

	reports, err := s.reporter.GetReports()
	if err != nil {
		return err
	}
	if err := s.deps.ReportWriter(s.flags.reportFile, reports); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	cmd.Printf("Wrote %d operation reports to %s\n", len(reports), s.flags.reportFile)

	return nil
}

// finishMigration prints the result of a run and turns every non-success terminal into an error.
func (s *session) finishMigration(cmd *cobra.Command, subject string, res *migration.Result, runErr error) error {
	if err := s.writeReports(cmd); err != nil {
		s.lggr.Errorw("Failed to write reports", "error", err)
	}

	if res != nil {
		for _, m := range res.Mutations {
			cmd.Printf("  %s  %s\n", m.Ref, m.Description)
		}
		if res.Planned != "" {
			cmd.Printf("Next step: %s\n", res.Planned)
		}
		for _, w := range res.Warnings {
			cmd.Println(text.Warning(w))
		}
		cmd.Println(text.PhaseLine(subject, res.Phase))
	}

	if runErr != nil {
		return runErr
	}
	if res == nil {
		return fmt.Errorf("%s migration returned no result", subject)
	}
	if !res.Succeeded() {
		return fmt.Errorf("%s migration ended in %s", subject, res.Phase)
	}

	return nil
}
