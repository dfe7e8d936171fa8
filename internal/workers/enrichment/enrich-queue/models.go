// internal/workers/enrichment/enrich-queue/models.go
package enrichqueue

import (
	"context"

	"prospect-enricher/internal/models"
	enrichcontact "prospect-enricher/internal/workers/enrichment/enrich-contact"
)

const queueEmpty = "Queue empty"

type ContactSource interface {
	ListUnprocessedContacts(ctx context.Context, listID string, limit int) ([]models.Contact, error)
}

type Enricher interface {
	Enrich(ctx context.Context, contact models.Contact) (*enrichcontact.Result, error)
}

// Locker guards against overlapping batch runs.
type Locker interface {
	Acquire(ctx context.Context, owner string) (bool, string, error)
	Release(ctx context.Context, owner string) error
}

// Response is the batch summary returned to the trigger.
type Response struct {
	Success   bool                    `json:"success"`
	Processed int                     `json:"processed"`
	Failed    int                     `json:"failed"`
	Time      string                  `json:"time"`
	Contacts  []string                `json:"contacts"`
	RunID     string                  `json:"runId,omitempty"`
	Outcomes  []models.ContactOutcome `json:"outcomes,omitempty"`

	// Message is set instead of the counters when the list had nothing to do.
	Message string `json:"message,omitempty"`
}

func (r *Response) Empty() bool {
	return r.Message == queueEmpty
}
