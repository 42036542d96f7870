package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/formula-cleaner/internal/audit"
	"github.com/fivetwenty-io/formula-cleaner/internal/config"
	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/internal/report"
	"github.com/fivetwenty-io/formula-cleaner/internal/worker"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrFormulasRequired = errors.New("formulas client is required")
)

// ConfirmFunc asks whether count instances may be deleted.
type ConfirmFunc func(ctx context.Context, count int) (bool, error)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Config    *config.Config
	Formulas  elements.FormulasClient
	Logger    *zap.Logger
	Reporter  *report.Reporter
	Publisher audit.Publisher
	// Confirm is consulted before deleting; nil deletes without asking.
	Confirm ConfirmFunc
	// RunID identifies the run in audit events; generated when empty.
	RunID string
}

// Runner drives one cleanup run: check templates, fetch instances, report,
// and in DELETE mode delete and report again.
type Runner struct {
	cfg       *config.Config
	formulas  elements.FormulasClient
	logger    *zap.Logger
	reporter  *report.Reporter
	publisher audit.Publisher
	confirm   ConfirmFunc
	runID     string
	checker   *TemplateChecker
	fetcher   *InstanceFetcher
}

// NewRunner creates a runner from opts. The configuration must already be valid.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Config == nil {
		return nil, ErrConfigRequired
	}

	if opts.Formulas == nil {
		return nil, ErrFormulasRequired
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.NewReporter(logger, nil, constants.FormatText)
	}

	publisher := opts.Publisher
	if publisher == nil {
		publisher = audit.NopPublisher{}
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Runner{
		cfg:       opts.Config,
		formulas:  opts.Formulas,
		logger:    logger,
		reporter:  reporter,
		publisher: publisher,
		confirm:   opts.Confirm,
		runID:     runID,
		checker:   NewTemplateChecker(opts.Formulas, logger, opts.Config.Concurrency),
		fetcher:   NewInstanceFetcher(opts.Formulas, logger, opts.Config.Concurrency),
	}, nil
}

// RunID returns the id of the run.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes the run and returns its summary. Upstream failures are
// contained to their template or instance; only setup failures and
// cancellation are returned as errors.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	r.reporter.Start(r.cfg.Mode, r.cfg.Environment)

	templateIDs := r.checker.Check(ctx, r.cfg.TemplateIDs)
	r.reporter.ValidTemplates(len(templateIDs))

	batches := r.fetcher.FetchAll(ctx, templateIDs)
	r.reporter.Discovery(batches)

	var results []elements.DeletionResult

	if r.cfg.Mode == config.ModeDelete {
		var err error

		results, err = r.delete(ctx, batches)
		if err != nil && !errors.Is(err, constants.ErrDeleteNotConfirmed) {
			return nil, err
		}
	}

	summary := report.BuildSummary(r.runID, r.cfg, batches, results)
	r.publishSummary(ctx, summary)

	err := r.reporter.Render(summary)
	if err != nil {
		return summary, fmt.Errorf("rendering summary: %w", err)
	}

	return summary, ctx.Err()
}

func (r *Runner) delete(ctx context.Context, batches []elements.InstanceBatch) ([]elements.DeletionResult, error) {
	total := 0
	for _, batch := range batches {
		total += len(batch.InstanceIDs)
	}

	if total == 0 {
		return nil, nil
	}

	if r.confirm != nil {
		confirmed, err := r.confirm(ctx, total)
		if err != nil {
			return nil, fmt.Errorf("confirming deletion: %w", err)
		}

		if !confirmed {
			r.reporter.Cancelled()

			return nil, constants.ErrDeleteNotConfirmed
		}
	}

	pool, err := worker.NewPool("delete", r.cfg.Concurrency, r.logger)
	if err != nil {
		return nil, err
	}

	defer pool.Release()

	deleter := NewDeleter(r.formulas, r.logger, pool, r.publisher, r.runID, string(r.cfg.Environment))
	results := deleter.DeleteAll(ctx, batches)
	r.reporter.Deletion(results)

	return results, nil
}

func (r *Runner) publishSummary(ctx context.Context, summary *report.Summary) {
	if r.cfg.Mode != config.ModeDelete {
		return
	}

	found, deleted, failed := summary.Totals()

	err := r.publisher.PublishSummary(ctx, audit.SummaryEvent{
		RunID:          r.runID,
		Environment:    summary.Environment,
		Mode:           summary.Mode,
		Templates:      summary.ValidTemplates,
		InstancesFound: found,
		Deleted:        deleted,
		Failed:         failed,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn(fmt.Sprintf("Audit summary could not be published. Error: %v", err), zap.Error(err))
	}
}
