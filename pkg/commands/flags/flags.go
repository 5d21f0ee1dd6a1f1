// Package flags provides reusable flag helpers for CLI commands.
//
// This package should only contain common flags that can be used by multiple commands
// to ensure unified naming and consistent behavior across the CLI.
// Command-specific flags should be defined locally in the command file.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// MustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func MustString(s string, _ error) string { return s }

// MustBool returns the bool value, ignoring the error.
// Safe to use with registered flags where GetBool cannot fail.
func MustBool(b bool, _ error) bool { return b }

// MustStringSlice returns the string slice value, ignoring the error.
// Safe to use with registered flags where GetStringSlice cannot fail.
func MustStringSlice(s []string, _ error) []string { return s }

// Profiles adds the --profiles/-p flag naming a built-in preset or a profile set file.
// Retrieve the value with cmd.Flags().GetString("profiles").
func Profiles(cmd *cobra.Command) {
	cmd.Flags().StringP("profiles", "p", "testnet",
		"Built-in profile set (testnet, mainnet) or path to a YAML, JSON or TOML profile set file")
}

// Endpoint adds the required --endpoint flag holding a messaging endpoint id.
// Retrieve the value with GetEndpoint.
func Endpoint(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "Messaging endpoint id of the chain to operate on (required)")
	_ = cmd.MarkFlagRequired("endpoint")
}

// GetEndpoint parses the --endpoint flag.
func GetEndpoint(cmd *cobra.Command) (topology.EndpointID, error) {
	return topology.ParseEndpointID(MustString(cmd.Flags().GetString("endpoint")))
}

// Networks adds the --networks flag listing network manifest files. Later files override earlier
// ones. Without files the built-in networks are used.
func Networks(cmd *cobra.Command) {
	cmd.Flags().StringSlice("networks", nil, "Network manifest YAML files (default: built-in networks)")
}

// Addresses adds the required --addresses flag pointing at the address book JSON file.
func Addresses(cmd *cobra.Command) {
	cmd.Flags().String("addresses", "", "Address book JSON file (required)")
	_ = cmd.MarkFlagRequired("addresses")
}

// Config adds the --config flag pointing at the runtime configuration file. Environment variables
// override values from the file.
func Config(cmd *cobra.Command) {
	cmd.Flags().String("config", "omnictl.yaml", "Runtime configuration file")
}

// Execute adds the --execute flag. Without it commands run as a dry run.
func Execute(cmd *cobra.Command) {
	cmd.Flags().Bool("execute", false, "Submit transactions (default is a dry run)")
}

// Yes adds the --yes/-y flag approving every transaction up front.
func Yes(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Approve every transaction without prompting")
}

// ReportFile adds the --report-file flag for writing the operation reports as JSON.
func ReportFile(cmd *cobra.Command) {
	cmd.Flags().String("report-file", "", "Write the operation reports of the run to this JSON file")
}

// Output adds the --out/-o flag for specifying output file path.
// Also supports the --output alias.
// Retrieve the value with cmd.Flags().GetString("out").
func Output(cmd *cobra.Command, defaultValue string) {
	cmd.Flags().StringP("out", "o", defaultValue, "Output file path")

	existingNormalize := cmd.Flags().GetNormalizeFunc()
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "output" {
			return pflag.NormalizedName("out")
		}
		if existingNormalize != nil {
			return existingNormalize(f, name)
		}

		return pflag.NormalizedName(name)
	})
}
