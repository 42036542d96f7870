package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/formula-cleaner/internal/config"
	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about formula-cleaner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: info.Version,
				Commit:  info.Commit,
				Built:   info.Date,
			}

			out := cmd.OutOrStdout()

			switch v.GetString(config.KeyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(versionInfo)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(out)

				return encoder.Encode(versionInfo)
			case constants.FormatTable:
				table := tablewriter.NewWriter(out)
				table.Header("Property", "Value")
				_ = table.Append("Version", info.Version)
				_ = table.Append("Commit", info.Commit)
				_ = table.Append("Built", info.Date)

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			default:
				_, _ = fmt.Fprintf(out, "formula-cleaner %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
			}

			return nil
		},
	}
}
