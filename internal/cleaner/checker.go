// Package cleaner discovers the formula instances of a set of formula
// templates and, in DELETE mode, deletes them.
package cleaner

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TemplateChecker keeps the template ids that resolve to an existing formula.
type TemplateChecker struct {
	formulas    elements.FormulasClient
	logger      *zap.Logger
	concurrency int
}

// NewTemplateChecker creates a checker running at most concurrency checks at once.
func NewTemplateChecker(formulas elements.FormulasClient, logger *zap.Logger, concurrency int) *TemplateChecker {
	if concurrency < 1 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &TemplateChecker{formulas: formulas, logger: logger, concurrency: concurrency}
}

// Check returns the ids that resolved, in input order. Failed checks are
// logged and dropped.
func (c *TemplateChecker) Check(ctx context.Context, templateIDs []string) []string {
	outcomes := make([]elements.Outcome[string], len(templateIDs))

	var group errgroup.Group

	group.SetLimit(c.concurrency)

	for index, templateID := range templateIDs {
		group.Go(func() error {
			outcomes[index] = c.check(ctx, templateID)

			return nil
		})
	}

	_ = group.Wait()

	valid := make([]string, 0, len(templateIDs))

	for _, outcome := range outcomes {
		if outcome.OK() {
			valid = append(valid, outcome.Value)
		}
	}

	return valid
}

func (c *TemplateChecker) check(ctx context.Context, templateID string) elements.Outcome[string] {
	_, err := c.formulas.Get(ctx, templateID)
	if err != nil {
		logUpstreamError(c.logger, fmt.Sprintf("Formula template ID %s could not be checked", templateID), err,
			zap.String("template_id", templateID))

		return elements.Failed(templateID, err)
	}

	return elements.Succeeded(templateID)
}

// logUpstreamError logs err with the upstream message and request id when the
// API returned them.
func logUpstreamError(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	apiErr := &elements.APIError{}
	if errors.As(err, &apiErr) {
		logger.Error(fmt.Sprintf("%s. Error: %s, requestId: %s", msg, apiErr.Message, apiErr.RequestID),
			append(fields, zap.Int("status", apiErr.StatusCode))...)

		return
	}

	logger.Error(fmt.Sprintf("%s. Error: %v", msg, err), fields...)
}
