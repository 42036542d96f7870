// Package audit publishes a record of every formula instance deletion.
package audit

import (
	"context"
	"time"
)

// DeletionEvent records one delete call.
type DeletionEvent struct {
	RunID       string    `json:"run_id"`
	Environment string    `json:"environment"`
	TemplateID  string    `json:"template_id"`
	InstanceID  int64     `json:"instance_id"`
	Deleted     bool      `json:"deleted"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SummaryEvent records the totals of a run.
type SummaryEvent struct {
	RunID          string    `json:"run_id"`
	Environment    string    `json:"environment"`
	Mode           string    `json:"mode"`
	Templates      int       `json:"templates"`
	InstancesFound int       `json:"instances_found"`
	Deleted        int       `json:"deleted"`
	Failed         int       `json:"failed"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher sends audit events somewhere durable.
type Publisher interface {
	PublishDeletion(ctx context.Context, event DeletionEvent) error
	PublishSummary(ctx context.Context, event SummaryEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// PublishDeletion does nothing.
func (NopPublisher) PublishDeletion(context.Context, DeletionEvent) error { return nil }

// PublishSummary does nothing.
func (NopPublisher) PublishSummary(context.Context, SummaryEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
