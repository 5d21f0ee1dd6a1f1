package topology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	showShort = "Show the connection matrix as a table"

	showLong = text.LongDesc(`
		Prints one row per connection of the profile set with the confirmations and validator
		counts of both directions and the enforced options of the destination.
	`)

	showExample = text.Examples(`
		# Show the mainnet connections
		omnictl topology show --profiles mainnet
	`)
)

// newShowCmd creates the "show" subcommand.
func newShowCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   showShort,
		Long:    showLong,
		Example: showExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, cfg, flags.MustString(cmd.Flags().GetString("profiles")))
		},
	}

	flags.Profiles(cmd)

	return cmd
}

// runShow executes the show command logic.
func runShow(cmd *cobra.Command, cfg Config, profiles string) error {
	reg, set, err := loadRegistry(cfg, profiles)
	if err != nil {
		return err
	}

	edges, err := topology.GenerateConnections(reg, contractsOf(reg, set))
	if err != nil {
		return fmt.Errorf("failed to generate topology: %w", err)
	}

	names := make(map[topology.EndpointID]string)
	for _, ep := range reg.Endpoints() {
		names[ep.ID] = ep.String()
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"From", "To", "Send Confs", "Receive Confs", "Required DVNs", "Optional DVNs", "Enforced Options"})
	table.SetAutoWrapText(false)
	for _, e := range edges {
		table.Append([]string{
			names[e.From.Endpoint],
			names[e.To.Endpoint],
			strconv.FormatUint(e.Send.Confirmations, 10),
			strconv.FormatUint(e.Receive.Confirmations, 10),
			strconv.Itoa(len(e.Send.RequiredValidators)),
			fmt.Sprintf("%d of %d", e.Send.OptionalThreshold, len(e.Send.OptionalValidators)),
			formatOptions(e.EnforcedOptions),
		})
	}
	table.Render()

	cmd.Printf("%s: %d endpoints, %d connections\n", reg.Name(), len(reg.Endpoints()), len(edges))

	return nil
}

// formatOptions renders options as "msgType:TYPE gas=N" joined by commas.
func formatOptions(opts []topology.EnforcedOption) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		s := fmt.Sprintf("%d:%s gas=%d", o.MsgType, o.OptionType, o.Gas)
		if o.Value > 0 {
			s += fmt.Sprintf(" value=%d", o.Value)
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, ", ")
}
