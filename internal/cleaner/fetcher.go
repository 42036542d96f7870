package cleaner

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InstanceFetcher pages through the instances of formula templates.
type InstanceFetcher struct {
	formulas    elements.FormulasClient
	logger      *zap.Logger
	concurrency int
}

// NewInstanceFetcher creates a fetcher paging at most concurrency templates at once.
func NewInstanceFetcher(formulas elements.FormulasClient, logger *zap.Logger, concurrency int) *InstanceFetcher {
	if concurrency < 1 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &InstanceFetcher{formulas: formulas, logger: logger, concurrency: concurrency}
}

// FetchAll fetches every template in parallel and returns batches in input order.
func (f *InstanceFetcher) FetchAll(ctx context.Context, templateIDs []string) []elements.InstanceBatch {
	batches := make([]elements.InstanceBatch, len(templateIDs))

	var group errgroup.Group

	group.SetLimit(f.concurrency)

	for index, templateID := range templateIDs {
		group.Go(func() error {
			batches[index] = f.Fetch(ctx, templateID)

			return nil
		})
	}

	_ = group.Wait()

	return batches
}

// Fetch reads the pages of one template sequentially until the API stops
// returning a next-page token. A failed page is not retried: pagination stops
// and the batch carries the error next to the ids read so far.
func (f *InstanceFetcher) Fetch(ctx context.Context, templateID string) elements.InstanceBatch {
	batch := elements.InstanceBatch{
		TemplateID:  templateID,
		InstanceIDs: []int64{},
	}

	token := ""

	for {
		page, err := f.formulas.ListInstances(ctx, templateID, token)
		batch.Pages++

		if err != nil {
			logUpstreamError(f.logger, fmt.Sprintf("Instances of formula template ID %s could not be listed", templateID), err,
				zap.String("template_id", templateID),
				zap.Int("page", batch.Pages),
			)

			batch.Err = err

			return batch
		}

		batch.InstanceIDs = append(batch.InstanceIDs, page.InstanceIDs()...)

		if page.NextPageToken == "" {
			return batch
		}

		if page.NextPageToken == token {
			batch.Err = fmt.Errorf("%w: token %q repeated", constants.ErrPaginationLoop, token)
			f.logger.Error(fmt.Sprintf("Instances of formula template ID %s returned the same next page token twice.", templateID),
				zap.String("template_id", templateID))

			return batch
		}

		token = page.NextPageToken
	}
}
