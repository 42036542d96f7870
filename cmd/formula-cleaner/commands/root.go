// Package commands implements the formula-cleaner command line.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fivetwenty-io/formula-cleaner/internal/config"
	"github.com/fivetwenty-io/formula-cleaner/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = ".env"

// BuildInfo describes the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the formula-cleaner command. Running it without a
// subcommand performs a cleanup run.
func NewRootCommand(info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "formula-cleaner",
		Short: "List or delete the instances of Cloud Elements formula templates",
		Long: `List or delete every instance of the configured formula templates.

In GET mode the instances of each template are counted. In DELETE mode every
discovered instance is deleted. Deletion is permanent: run in GET mode first.

Settings are read from flags, environment variables and a .env file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			return runCleanup(cmd, cfg)
		},
	}

	bindFlags(cmd, v)

	cmd.AddCommand(NewValidateCommand(v))
	cmd.AddCommand(NewVersionCommand(info, v))

	return cmd
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "settings file in .env format (default is ./.env when present)")
	flags.String("env", "", "Cloud Elements environment (STAGING, US_PROD, EU_PROD)")
	flags.String("mode", "", "run mode (GET, DELETE)")
	flags.StringSlice("template-ids", nil, "formula template ids to process")
	flags.String("user-secret", "", "user secret")
	flags.String("org-secret", "", "organization secret")
	flags.String("api-endpoint", "", "API endpoint URL overriding the environment host")
	flags.Int("concurrency", 0, "maximum concurrent requests (default 10)")
	flags.Float64("rate-limit", 0, "maximum requests per second, 0 for unlimited")
	flags.Duration("timeout", 0, "per-request timeout (default 5s)")
	flags.Int("retries", 0, "retries for failed requests")
	flags.StringP("output", "o", "", "summary output format (text, table, json, yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.String("nats-url", "", "NATS server receiving deletion audit events")
	flags.String("nats-subject", "", "NATS subject for deletion audit events")
	flags.BoolP("yes", "y", false, "delete without asking for confirmation")
	flags.Bool("debug", false, "log every HTTP request and response")

	bindings := map[string]string{
		"config":       keyConfigFile,
		"env":          config.KeyEnvironment,
		"mode":         config.KeyMode,
		"template-ids": config.KeyTemplateIDs,
		"user-secret":  config.KeyUserSecret,
		"org-secret":   config.KeyOrgSecret,
		"api-endpoint": config.KeyAPIEndpoint,
		"concurrency":  config.KeyConcurrency,
		"rate-limit":   config.KeyRateLimit,
		"timeout":      config.KeyTimeout,
		"retries":      config.KeyRetries,
		"output":       config.KeyOutput,
		"log-level":    config.KeyLogLevel,
		"log-format":   config.KeyLogFormat,
		"nats-url":     config.KeyNATSURL,
		"nats-subject": config.KeyNATSSubject,
		"yes":          config.KeyAssumeYes,
		"debug":        config.KeyDebug,
	}

	for flag, key := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

const keyConfigFile = "config_file"

// initConfig wires defaults, environment variables and the optional .env file.
func initConfig(v *viper.Viper) error {
	config.SetDefaults(v)
	v.AutomaticEnv()

	cfgFile := v.GetString(keyConfigFile)
	if cfgFile == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return nil
		}

		cfgFile = defaultConfigFile
	}

	v.SetConfigFile(cfgFile)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}

	return nil
}

// loadConfig reads and validates the configuration. Validation problems are
// written to stderr before the error is returned.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	cfg := config.Load(v)

	err := cfg.Validate()
	if err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			report.PrintValidationError(cmd.ErrOrStderr(), validationErr)
		}

		return nil, err
	}

	return cfg, nil
}
