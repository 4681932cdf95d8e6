// Package fulfillment hands completed dining requests to the work queue.
package fulfillment

import (
	"context"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"
)

const MessageBody = "Dining Concierge request"

// Queue sends one message with string attributes and returns its id.
type Queue interface {
	Send(ctx context.Context, body string, attributes map[string]string) (string, error)
}

// Enqueuer submits exactly one message per call. There is no idempotency
// key, so a retried turn produces a second work item.
type Enqueuer struct {
	queue  Queue
	logger logger.Logger
}

func NewEnqueuer(queue Queue, log logger.Logger) *Enqueuer {
	return &Enqueuer{
		queue:  queue,
		logger: log.WithFields(map[string]interface{}{"component": "enqueuer"}),
	}
}

func (e *Enqueuer) Enqueue(ctx context.Context, slots models.SlotSet) (*models.WorkItem, error) {
	item := models.WorkItemFromSlots(slots)
	attrs := item.Attributes()

	if missing := missingSlots(attrs); len(missing) > 0 {
		e.logger.Warn("enqueueing work item with unset slots", map[string]interface{}{
			"missing": missing,
		})
	}

	messageID, err := e.queue.Send(ctx, MessageBody, attrs)
	if err != nil {
		metrics.WorkItemsEnqueued.WithLabelValues("failed").Inc()
		return nil, errors.NewQueueUnavailableError(err)
	}

	metrics.WorkItemsEnqueued.WithLabelValues("sent").Inc()
	e.logger.Debug("work item sent", map[string]interface{}{
		"messageId": messageID,
	})
	return &item, nil
}

func missingSlots(attrs map[string]string) []string {
	var missing []string
	for _, name := range models.SlotOrder {
		if _, ok := attrs[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
