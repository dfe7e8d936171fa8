// internal/workers/enrichment/enrich-queue/handler.go
package enrichqueue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/metrics"
	"prospect-enricher/internal/common/observability"
	"prospect-enricher/internal/models"

	"github.com/google/uuid"
)

const (
	statusSuccess = "success"
	statusEmpty   = "empty"
	statusError   = "error"
)

type Handler struct {
	config   *Config
	contacts ContactSource
	enricher Enricher
	lock     Locker
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, contacts ContactSource, enricher Enricher, lock Locker, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		contacts: contacts,
		enricher: enricher,
		lock:     lock,
		obs:      obs,
		logger:   logger.Component(log, "enrich-queue"),
		now:      time.Now,
	}
}

// Run enriches one batch of contacts sequentially. Per-contact failures are
// counted and the loop moves on; only list, lock and configuration problems
// fail the batch.
func (h *Handler) Run(ctx context.Context) (*Response, error) {
	start := h.now()
	runID := uuid.NewString()
	log := h.logger.WithFields(map[string]interface{}{"runId": runID, "listId": h.config.ListID})

	metrics.BatchesActive.Inc()
	defer metrics.BatchesActive.Dec()

	resp, err := h.run(ctx, log, runID, start)

	elapsed := h.now().Sub(start)
	status := statusSuccess
	switch {
	case err != nil:
		status = statusError
		log.WithError(err).Error("Batch failed", map[string]interface{}{"durationMs": elapsed.Milliseconds()})
	case resp.Empty():
		status = statusEmpty
		log.Info("Queue empty", nil)
	default:
		log.Info("Batch complete", map[string]interface{}{
			"processed": resp.Processed,
			"failed":    resp.Failed,
			"time":      resp.Time,
		})
	}
	metrics.BatchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if resp != nil {
		h.obs.RecordBatch(ctx, status, elapsed, resp.Processed, resp.Failed)
	} else {
		h.obs.RecordBatch(ctx, status, elapsed, 0, 0)
	}
	return resp, err
}

func (h *Handler) run(ctx context.Context, log logger.Logger, runID string, start time.Time) (*Response, error) {
	if h.contacts == nil {
		return nil, errors.NewCRMNotConfiguredError("no contact source configured")
	}

	if h.lock != nil {
		acquired, holder, err := h.lock.Acquire(ctx, runID)
		switch {
		case err != nil:
			log.Warn("Run lock unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		case !acquired:
			return nil, errors.NewRunInProgressError(holder)
		default:
			defer func() {
				if err := h.lock.Release(context.WithoutCancel(ctx), runID); err != nil {
					log.Warn("Failed to release run lock", map[string]interface{}{"error": err.Error()})
				}
			}()
		}
	}

	contacts, err := h.contacts.ListUnprocessedContacts(ctx, h.config.ListID, h.config.BatchSize)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeCRMReadFailed) || errors.HasCode(err, errors.ErrCodeCRMNotConfigured) {
			return nil, err
		}
		return nil, errors.NewCRMReadFailedError(err)
	}
	if len(contacts) == 0 {
		return &Response{Message: queueEmpty, RunID: runID}, nil
	}
	log.Info("Batch started", map[string]interface{}{"contacts": len(contacts)})

	resp := &Response{Success: true, RunID: runID, Contacts: []string{}}
	for _, contact := range contacts {
		name := contact.Name()
		if name == "" || strings.TrimSpace(contact.Company) == "" {
			metrics.ContactsProcessed.WithLabelValues(models.OutcomeSkipped).Inc()
			resp.Outcomes = append(resp.Outcomes, models.ContactOutcome{ID: contact.ID, Name: name, Status: models.OutcomeSkipped})
			continue
		}
		if h.now().Sub(start) > h.config.TimeBudget {
			log.Warn("Time budget exhausted, stopping", map[string]interface{}{"budgetMs": h.config.TimeBudget.Milliseconds()})
			break
		}
		if ctx.Err() != nil {
			log.Warn("Batch cancelled, stopping", nil)
			break
		}

		result, err := h.enricher.Enrich(ctx, contact)
		if err != nil {
			resp.Failed++
			metrics.ContactsProcessed.WithLabelValues(models.OutcomeFailed).Inc()
			stdErr := errors.AsStandard(err)
			log.WithError(err).Error("Contact enrichment failed", map[string]interface{}{
				"contactId":   contact.ID,
				"name":        name,
				"category":    errors.GetErrorCategory(stdErr.Code),
				"recoverable": errors.IsRecoverable(err),
			})
			resp.Outcomes = append(resp.Outcomes, models.ContactOutcome{ID: contact.ID, Name: name, Status: models.OutcomeFailed, Error: string(stdErr.Code)})
			continue
		}

		resp.Processed++
		resp.Contacts = append(resp.Contacts, name)
		metrics.ContactsProcessed.WithLabelValues(models.OutcomeEnriched).Inc()
		outcome := models.ContactOutcome{ID: contact.ID, Name: name, Status: models.OutcomeEnriched}
		if result != nil && result.Bundle != nil {
			outcome.Sources = result.Bundle.Sources
		}
		resp.Outcomes = append(resp.Outcomes, outcome)
		log.Info("Contact enriched", map[string]interface{}{"contactId": contact.ID, "sources": outcome.Sources})
	}

	resp.Time = fmt.Sprintf("%.1f", h.now().Sub(start).Seconds())
	return resp, nil
}
