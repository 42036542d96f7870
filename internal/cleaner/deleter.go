package cleaner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/formula-cleaner/internal/audit"
	"github.com/fivetwenty-io/formula-cleaner/internal/worker"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
	"go.uber.org/zap"
)

// Deleter deletes formula instances through a bounded worker pool.
type Deleter struct {
	formulas    elements.FormulasClient
	logger      *zap.Logger
	pool        *worker.Pool
	publisher   audit.Publisher
	runID       string
	environment string
}

// NewDeleter creates a deleter. Every delete outcome is published to publisher.
func NewDeleter(formulas elements.FormulasClient, logger *zap.Logger, pool *worker.Pool, publisher audit.Publisher, runID, environment string) *Deleter {
	if publisher == nil {
		publisher = audit.NopPublisher{}
	}

	return &Deleter{
		formulas:    formulas,
		logger:      logger,
		pool:        pool,
		publisher:   publisher,
		runID:       runID,
		environment: environment,
	}
}

// DeleteAll issues one delete call per instance of every batch that has
// instances. Batches without instances produce no result. A failed delete is
// logged and recorded; it is neither retried nor does it stop other deletes.
func (d *Deleter) DeleteAll(ctx context.Context, batches []elements.InstanceBatch) []elements.DeletionResult {
	targets := make([]elements.InstanceBatch, 0, len(batches))
	instances := 0

	for _, batch := range batches {
		if len(batch.InstanceIDs) > 0 {
			targets = append(targets, batch)
			instances += len(batch.InstanceIDs)
		}
	}

	d.logger.Debug("Deleting formula instances.",
		zap.Int("templates", len(targets)),
		zap.Int("instances", instances),
		zap.Int("workers", d.pool.Cap()),
	)

	results := make([]elements.DeletionResult, len(targets))

	var waitGroup sync.WaitGroup

	for targetIndex, target := range targets {
		results[targetIndex] = elements.DeletionResult{
			TemplateID: target.TemplateID,
			Outcomes:   make([]elements.Outcome[int64], len(target.InstanceIDs)),
		}
		result := &results[targetIndex]

		for index, instanceID := range target.InstanceIDs {
			waitGroup.Add(1)

			err := d.pool.Submit(ctx, func(ctx context.Context) {
				defer waitGroup.Done()

				result.Outcomes[index] = d.delete(ctx, result.TemplateID, instanceID)
			})
			if err != nil {
				waitGroup.Done()

				result.Outcomes[index] = elements.Failed(instanceID, err)
				d.logger.Error(fmt.Sprintf("Formula instance %d of template ID %s was not submitted for deletion. Error: %v",
					instanceID, result.TemplateID, err))
			}
		}
	}

	waitGroup.Wait()

	return results
}

func (d *Deleter) delete(ctx context.Context, templateID string, instanceID int64) elements.Outcome[int64] {
	err := d.formulas.DeleteInstance(ctx, templateID, instanceID)

	event := audit.DeletionEvent{
		RunID:       d.runID,
		Environment: d.environment,
		TemplateID:  templateID,
		InstanceID:  instanceID,
		Deleted:     err == nil,
		Timestamp:   time.Now().UTC(),
	}

	if err != nil {
		event.Error = err.Error()

		logUpstreamError(d.logger, fmt.Sprintf("Formula instance %d of template ID %s could not be deleted", instanceID, templateID), err,
			zap.String("template_id", templateID),
			zap.Int64("instance_id", instanceID),
		)
	}

	publishErr := d.publisher.PublishDeletion(ctx, event)
	if publishErr != nil {
		d.logger.Warn(fmt.Sprintf("Audit event for formula instance %d could not be published. Error: %v", instanceID, publishErr),
			zap.Error(publishErr),
			zap.String("template_id", templateID),
			zap.Int64("instance_id", instanceID),
		)
	}

	if err != nil {
		return elements.Failed(instanceID, err)
	}

	return elements.Succeeded(instanceID)
}
