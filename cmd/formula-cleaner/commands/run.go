package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/formula-cleaner/internal/audit"
	"github.com/fivetwenty-io/formula-cleaner/internal/cleaner"
	"github.com/fivetwenty-io/formula-cleaner/internal/client"
	"github.com/fivetwenty-io/formula-cleaner/internal/config"
	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/internal/http"
	"github.com/fivetwenty-io/formula-cleaner/internal/logger"
	"github.com/fivetwenty-io/formula-cleaner/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// runCleanup performs one cleanup run with a valid configuration.
func runCleanup(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}

	log, err := logger.New(logger.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	defer func() { _ = log.Sync() }()

	endpoint, err := cfg.Endpoint()
	if err != nil {
		return err
	}

	apiClient, err := client.New(&client.Config{
		APIEndpoint: endpoint,
		UserSecret:  cfg.UserSecret,
		OrgSecret:   cfg.OrgSecret,
		Logger:      logger.NewFieldLogger(log),
		Debug:       cfg.Debug,
		HTTPOptions: []http.Option{
			http.WithTimeout(cfg.Timeout),
			http.WithRetryConfig(cfg.Retries, constants.DefaultRetryWaitMin, constants.DefaultRetryWaitMax),
			http.WithRateLimit(cfg.RateLimit, cfg.Concurrency),
		},
	})
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	publisher := newPublisher(cfg, log)
	defer func() { _ = publisher.Close() }()

	var confirm cleaner.ConfirmFunc
	if cfg.Mode == config.ModeDelete && !cfg.AssumeYes && isTerminal(cmd.InOrStdin()) {
		confirm = promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	runner, err := cleaner.NewRunner(cleaner.RunnerOptions{
		Config:    cfg,
		Formulas:  apiClient.Formulas(),
		Logger:    log,
		Reporter:  report.NewReporter(log, cmd.OutOrStdout(), cfg.Output),
		Publisher: publisher,
		Confirm:   confirm,
	})
	if err != nil {
		return err
	}

	log.Debug("Starting run.", zap.String("run_id", runner.RunID()), zap.String("endpoint", apiClient.APIEndpoint()))

	_, err = runner.Run(ctx)

	return err
}

// newPublisher connects the audit publisher when a NATS URL is configured.
// A failed connection is logged and auditing is skipped.
func newPublisher(cfg *config.Config, log *zap.Logger) audit.Publisher {
	if cfg.NATSURL == "" || cfg.Mode != config.ModeDelete {
		return audit.NopPublisher{}
	}

	publisher, err := audit.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		log.Warn(fmt.Sprintf("Audit events will not be published. Error: %v", err), zap.Error(err))

		return audit.NopPublisher{}
	}

	return publisher
}

func isTerminal(in io.Reader) bool {
	file, ok := in.(*os.File)

	return ok && term.IsTerminal(int(file.Fd()))
}

// promptConfirm asks on out and reads the answer from in. Only "y" and "yes"
// confirm.
func promptConfirm(in io.Reader, out io.Writer) cleaner.ConfirmFunc {
	reader := bufio.NewReader(in)

	return func(_ context.Context, count int) (bool, error) {
		_, _ = fmt.Fprintln(out, "CAUTION: deleted formula instances cannot be recovered.")
		_, _ = fmt.Fprintf(out, "Delete %d formula instance(s)? [y/N]: ", count)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}

		answer := strings.ToLower(strings.TrimSpace(line))

		return answer == "y" || answer == "yes", nil
	}
}
