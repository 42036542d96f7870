package cleaner_test

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/fivetwenty-io/formula-cleaner/pkg/elements"
)

var errConnectionReset = errors.New("connection reset by peer")

// fakeFormulas is an in-memory elements.FormulasClient.
type fakeFormulas struct {
	mu sync.Mutex
	// templates that exist
	templates map[string]bool
	// pages per template, served in order
	pages map[string][]elements.InstancePage
	// failPage makes the n-th (1-based) page request of a template fail
	failPage map[string]int
	// failDelete lists instance ids whose delete fails
	failDelete map[int64]bool

	getCalls    []string
	listCalls   map[string][]string
	deleteCalls map[string][]int64
}

func newFakeFormulas() *fakeFormulas {
	return &fakeFormulas{
		templates:   map[string]bool{},
		pages:       map[string][]elements.InstancePage{},
		failPage:    map[string]int{},
		failDelete:  map[int64]bool{},
		listCalls:   map[string][]string{},
		deleteCalls: map[string][]int64{},
	}
}

// withInstances registers templateID with one page per element of pages,
// chaining the pages with tokens.
func (f *fakeFormulas) withInstances(templateID string, pages ...[]int64) *fakeFormulas {
	f.templates[templateID] = true

	for index, ids := range pages {
		page := elements.InstancePage{}
		for _, id := range ids {
			page.Instances = append(page.Instances, elements.FormulaInstance{ID: id})
		}

		if index < len(pages)-1 {
			page.NextPageToken = "token-" + templateID + "-" + string(rune('a'+index))
		}

		f.pages[templateID] = append(f.pages[templateID], page)
	}

	return f
}

func (f *fakeFormulas) Get(ctx context.Context, templateID string) (*elements.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls = append(f.getCalls, templateID)

	if !f.templates[templateID] {
		return nil, &elements.APIError{StatusCode: http.StatusNotFound, Message: "No formula found", RequestID: "req-" + templateID}
	}

	return &elements.Formula{Name: "formula-" + templateID}, nil
}

func (f *fakeFormulas) ListInstances(ctx context.Context, templateID, pageToken string) (*elements.InstancePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls[templateID] = append(f.listCalls[templateID], pageToken)
	request := len(f.listCalls[templateID])

	if f.failPage[templateID] == request {
		return nil, errConnectionReset
	}

	pages := f.pages[templateID]
	if len(pages) == 0 {
		return &elements.InstancePage{}, nil
	}

	index := 0

	if pageToken != "" {
		for i, page := range pages {
			if page.NextPageToken == pageToken {
				index = i + 1
			}
		}
	}

	page := pages[min(index, len(pages)-1)]

	return &page, nil
}

func (f *fakeFormulas) DeleteInstance(ctx context.Context, templateID string, instanceID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls[templateID] = append(f.deleteCalls[templateID], instanceID)

	if f.failDelete[instanceID] {
		return &elements.APIError{StatusCode: http.StatusInternalServerError, Message: "delete failed", RequestID: "req-del"}
	}

	return nil
}

func (f *fakeFormulas) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, calls := range f.deleteCalls {
		count += len(calls)
	}

	return count
}
