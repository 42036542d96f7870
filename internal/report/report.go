// Package report writes the console lines and the optional summary document
// of a cleanup run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fivetwenty-io/formula-cleaner/internal/config"
	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TemplateSummary is the outcome of one formula template.
type TemplateSummary struct {
	TemplateID     string `json:"template_id"     yaml:"template_id"`
	InstancesFound int    `json:"instances_found" yaml:"instances_found"`
	Pages          int    `json:"pages"           yaml:"pages"`
	Complete       bool   `json:"complete"        yaml:"complete"`
	Deleted        int    `json:"deleted"         yaml:"deleted"`
	Failed         int    `json:"failed"          yaml:"failed"`
}

// Summary is the machine readable outcome of a run.
type Summary struct {
	RunID          string            `json:"run_id"          yaml:"run_id"`
	Environment    string            `json:"environment"     yaml:"environment"`
	Mode           string            `json:"mode"            yaml:"mode"`
	ValidTemplates int               `json:"valid_templates" yaml:"valid_templates"`
	Templates      []TemplateSummary `json:"templates"       yaml:"templates"`
}

// Totals returns instances found, deleted and failed across templates.
func (s *Summary) Totals() (found, deleted, failed int) {
	for _, template := range s.Templates {
		found += template.InstancesFound
		deleted += template.Deleted
		failed += template.Failed
	}

	return found, deleted, failed
}

// BuildSummary combines discovery batches and deletion results.
func BuildSummary(runID string, cfg *config.Config, batches []elements.InstanceBatch, results []elements.DeletionResult) *Summary {
	deletions := make(map[string]elements.DeletionResult, len(results))
	for _, result := range results {
		deletions[result.TemplateID] = result
	}

	summary := &Summary{
		RunID:          runID,
		Environment:    string(cfg.Environment),
		Mode:           string(cfg.Mode),
		ValidTemplates: len(batches),
		Templates:      make([]TemplateSummary, 0, len(batches)),
	}

	for _, batch := range batches {
		template := TemplateSummary{
			TemplateID:     batch.TemplateID,
			InstancesFound: len(batch.InstanceIDs),
			Pages:          batch.Pages,
			Complete:       batch.Complete(),
		}

		if result, ok := deletions[batch.TemplateID]; ok {
			template.Deleted = result.Succeeded()
			template.Failed = result.Failed()
		}

		summary.Templates = append(summary.Templates, template)
	}

	return summary
}

// Reporter writes run progress as log lines and renders the final summary.
type Reporter struct {
	logger *zap.Logger
	out    io.Writer
	format string
}

// NewReporter creates a reporter. out receives the summary document for the
// table, json and yaml formats.
func NewReporter(logger *zap.Logger, out io.Writer, format string) *Reporter {
	if out == nil {
		out = os.Stdout
	}

	if format == "" {
		format = constants.FormatText
	}

	return &Reporter{logger: logger, out: out, format: format}
}

// Start reports the mode and environment of the run.
func (r *Reporter) Start(mode config.Mode, environment config.Environment) {
	r.logger.Info(fmt.Sprintf("Running script in %s mode for Cloud Elements %s.", mode, environment))
}

// ValidTemplates reports how many configured templates resolved.
func (r *Reporter) ValidTemplates(count int) {
	r.logger.Info(fmt.Sprintf("Found %d valid template ID(s), skipping any invalid template ID(s).", count))
}

// Discovery reports the instance count of every template.
func (r *Reporter) Discovery(batches []elements.InstanceBatch) {
	for _, batch := range batches {
		r.logger.Info(fmt.Sprintf("Formula template ID %s found %d instance(s).", batch.TemplateID, len(batch.InstanceIDs)))

		if !batch.Complete() {
			r.logger.Error(fmt.Sprintf("Formula template ID %s instance listing stopped early after %d page(s); count may be incomplete.",
				batch.TemplateID, batch.Pages))
		}
	}
}

// Deletion reports confirmed and failed deletes of every template that had instances.
func (r *Reporter) Deletion(results []elements.DeletionResult) {
	for _, result := range results {
		r.logger.Info(fmt.Sprintf("Formula template ID %s successfully deleted %d instance(s).", result.TemplateID, result.Succeeded()))

		if failed := result.Failed(); failed > 0 {
			r.logger.Error(fmt.Sprintf("Formula template ID %s failed to delete %d instance(s).", result.TemplateID, failed))
		}
	}
}

// Cancelled reports that deletion was declined.
func (r *Reporter) Cancelled() {
	r.logger.Info("Deletion cancelled, no formula instances were deleted.")
}

// Render writes summary in the reporter's format. The text format writes nothing.
func (r *Reporter) Render(summary *Summary) error {
	switch r.format {
	case constants.FormatText:
		return nil
	case constants.FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(summary)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(r.out)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(summary)
	case constants.FormatTable:
		return r.renderTable(summary)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, r.format)
	}
}

func (r *Reporter) renderTable(summary *Summary) error {
	table := tablewriter.NewWriter(r.out)
	table.Header("Template ID", "Instances", "Pages", "Complete", "Deleted", "Failed")

	for _, template := range summary.Templates {
		_ = table.Append(
			template.TemplateID,
			strconv.Itoa(template.InstancesFound),
			strconv.Itoa(template.Pages),
			strconv.FormatBool(template.Complete),
			strconv.Itoa(template.Deleted),
			strconv.Itoa(template.Failed),
		)
	}

	return table.Render()
}

// PrintValidationError writes the validation banner and every problem to w.
func PrintValidationError(w io.Writer, err *config.ValidationError) {
	_, _ = fmt.Fprintf(w, "ERROR: %s\n", config.ValidationBanner)

	for _, problem := range err.Problems {
		_, _ = fmt.Fprintf(w, "ERROR: %s\n", problem)
	}
}
