package topology

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/flags"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/commands/text"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	generateShort = "Generate the connection matrix and contract configuration"

	generateLong = text.LongDesc(`
		Generates the declarative topology document of a profile set: the owner and delegate of
		every contract and one connection for every ordered pair of contracts, carrying the send
		and receive security stacks and the encoded enforced options of the destination.

		Any configuration problem fails the whole generation; no partial document is written.
	`)

	generateExample = text.Examples(`
		# Print the testnet topology as JSON
		omnictl topology generate

		# Write the mainnet topology as YAML
		omnictl topology generate --profiles mainnet --out mainnet.yaml

		# Generate from a custom profile set file
		omnictl topology generate --profiles ./profiles.toml --format yaml
	`)
)

type generateFlags struct {
	profiles string
	format   string
	out      string
}

// newGenerateCmd creates the "generate" subcommand.
func newGenerateCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   generateShort,
		Long:    generateLong,
		Example: generateExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := generateFlags{
				profiles: flags.MustString(cmd.Flags().GetString("profiles")),
				format:   flags.MustString(cmd.Flags().GetString("format")),
				out:      flags.MustString(cmd.Flags().GetString("out")),
			}

			return runGenerate(cmd, cfg, f)
		},
	}

	flags.Profiles(cmd)
	flags.Output(cmd, "")
	cmd.Flags().StringP("format", "f", "", "Document format: json or yaml (default: from --out extension, else json)")

	return cmd
}

// documentFormat picks the output format from the flags.
func documentFormat(f generateFlags) (topology.Format, error) {
	if f.format != "" {
		switch format := topology.Format(f.format); format {
		case topology.FormatJSON, topology.FormatYAML:
			return format, nil
		default:
			return "", fmt.Errorf("unsupported document format %q: expected json or yaml", f.format)
		}
	}
	if f.out != "" {
		if format, err := topology.FormatFromPath(f.out); err == nil && format != topology.FormatTOML {
			return format, nil
		}
	}

	return topology.FormatJSON, nil
}

// runGenerate executes the generate command logic.
func runGenerate(cmd *cobra.Command, cfg Config, f generateFlags) error {
	format, err := documentFormat(f)
	if err != nil {
		return err
	}

	reg, set, err := loadRegistry(cfg, f.profiles)
	if err != nil {
		return err
	}

	doc, err := topology.GenerateDocument(reg, contractsOf(reg, set))
	if err != nil {
		return fmt.Errorf("failed to generate topology: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if f.out != "" {
		wc, err := cfg.deps().DocumentWriter(f.out)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", f.out, err)
		}
		defer wc.Close()
		w = wc
	}

	if err := topology.EncodeDocument(w, doc, format); err != nil {
		return fmt.Errorf("failed to write topology: %w", err)
	}

	cfg.Logger.Infow("Generated topology",
		"profile", doc.Profile,
		"contracts", len(doc.Contracts),
		"connections", len(doc.Connections),
	)
	if f.out != "" {
		cmd.Printf("Wrote %d connections of profile %s to %s\n", len(doc.Connections), doc.Profile, f.out)
	}

	return nil
}
