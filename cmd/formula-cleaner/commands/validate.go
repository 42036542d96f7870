package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without calling the API",
		Long:  "Check that every required setting is present and well formed, then exit without making any request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			endpoint, err := cfg.Endpoint()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "INFO: Configuration is valid: %s mode, %d template ID(s), endpoint %s.\n",
				cfg.Mode, len(cfg.TemplateIDs), endpoint)

			return nil
		},
	}
}
