package elements

import "context"

// FormulasClient defines operations on formula templates and their instances.
type FormulasClient interface {
	// Get returns the formula template with the given id.
	Get(ctx context.Context, templateID string) (*Formula, error)
	// ListInstances returns one page of the template's instances. An empty
	// token requests the first page.
	ListInstances(ctx context.Context, templateID, pageToken string) (*InstancePage, error)
	// DeleteInstance deletes one formula instance.
	DeleteInstance(ctx context.Context, templateID string, instanceID int64) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
