package elements

import "time"

// Formula is a formula template.
type Formula struct {
	ID          int64     `json:"id"                    yaml:"id"`
	Name        string    `json:"name"                  yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Active      bool      `json:"active"                yaml:"active"`
	CreatedDate time.Time `json:"createdDate,omitzero"  yaml:"created_date,omitempty"`
}

// FormulaInstance is a concrete, individually deletable instance of a formula template.
type FormulaInstance struct {
	ID          int64     `json:"id"                   yaml:"id"`
	Name        string    `json:"name"                 yaml:"name"`
	Active      bool      `json:"active"               yaml:"active"`
	CreatedDate time.Time `json:"createdDate,omitzero" yaml:"created_date,omitempty"`
}

// InstancePage is a single page of a formula's instance list.
type InstancePage struct {
	Instances []FormulaInstance
	// NextPageToken is empty on the last page.
	NextPageToken string
}

// InstanceIDs returns the ids of the page's instances in response order.
func (p *InstancePage) InstanceIDs() []int64 {
	ids := make([]int64, 0, len(p.Instances))
	for _, instance := range p.Instances {
		ids = append(ids, instance.ID)
	}

	return ids
}

// InstanceBatch holds every instance id collected for one formula template.
type InstanceBatch struct {
	TemplateID  string
	InstanceIDs []int64
	// Pages is the number of page requests issued.
	Pages int
	// Err is set when pagination stopped on a failed page; InstanceIDs then
	// holds only the ids of the pages read before it.
	Err error
}

// Complete reports whether every page was read.
func (b *InstanceBatch) Complete() bool {
	return b.Err == nil
}

// Outcome is the result of one unit of work: a value or the error that
// prevented it.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Succeeded returns a successful outcome.
func Succeeded[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value}
}

// Failed returns a failed outcome for value.
func Failed[T any](value T, err error) Outcome[T] {
	return Outcome[T]{Value: value, Err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// DeletionResult holds the per-instance delete outcomes for one formula template.
type DeletionResult struct {
	TemplateID string
	Outcomes   []Outcome[int64]
}

// Issued returns the number of delete calls made.
func (r *DeletionResult) Issued() int {
	return len(r.Outcomes)
}

// Succeeded returns the number of confirmed deletions.
func (r *DeletionResult) Succeeded() int {
	count := 0

	for _, outcome := range r.Outcomes {
		if outcome.OK() {
			count++
		}
	}

	return count
}

// Failed returns the number of delete calls that did not succeed.
func (r *DeletionResult) Failed() int {
	return r.Issued() - r.Succeeded()
}
