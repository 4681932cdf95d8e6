// internal/workers/pipeline/dispatch-suggestions/worker.go
package dispatchsuggestions

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	awsclient "dining-concierge/internal/common/aws"
	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/models"
)

// Queue claims and removes work items.
type Queue interface {
	ReceiveOne(ctx context.Context) (*awsclient.QueueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Worker turns one queued request into a delivered notification. It holds no
// state between calls; concurrent workers rely on the queue's visibility
// timeout to avoid processing the same item twice.
type Worker struct {
	config   *Config
	queue    Queue
	searcher Searcher
	store    RestaurantStore
	notifier Notifier
	obs      *observability.Observability
	logger   logger.Logger
}

func NewWorker(
	config *Config,
	queue Queue,
	searcher Searcher,
	store RestaurantStore,
	notifier Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Worker {
	return &Worker{
		config:   config,
		queue:    queue,
		searcher: searcher,
		store:    store,
		notifier: notifier,
		obs:      obs,
		logger: log.WithFields(map[string]interface{}{
			"queue":  config.Endpoints.QueueEndpoint,
			"search": config.Endpoints.SearchEndpoint,
			"store":  config.Endpoints.StoreTableName,
			"notify": config.Endpoints.NotifyTarget,
		}),
	}
}

// ProcessOne claims at most one work item and carries it through search,
// enrichment and notification. The message is deleted only after delivery,
// or when it can never be processed.
func (w *Worker) ProcessOne(ctx context.Context) *Result {
	start := time.Now()
	ctx, span := w.obs.StartSpan(ctx, "pipeline.process_one")
	result := w.process(ctx)
	span.SetAttributes(
		attribute.String("outcome", string(result.Outcome)),
		attribute.String("messageId", result.MessageID),
		attribute.Int("entries", result.Entries),
	)
	observability.EndSpan(span, result.Err)

	metrics.PipelineOutcomes.WithLabelValues(string(result.Outcome), errorCode(result.Err)).Inc()
	w.obs.RecordRun(ctx, string(result.Outcome), time.Since(start))

	if result.Outcome != OutcomeIdle {
		fields := map[string]interface{}{
			"outcome":   result.Outcome,
			"messageId": result.MessageID,
			"hits":      result.Hits,
			"entries":   result.Entries,
			"duration":  time.Since(start).String(),
		}
		if result.Err != nil {
			fields["error"] = result.Err
			fields["errorCode"] = errorCode(result.Err)
			w.logger.Warn("work item not delivered", fields)
		} else {
			w.logger.Info("work item delivered", fields)
		}
	}
	return result
}

func (w *Worker) process(ctx context.Context) *Result {
	msg, err := w.claim(ctx)
	if err != nil {
		return &Result{Outcome: OutcomeRetryable, Err: apperrors.NewQueueUnavailableError(err)}
	}
	if msg == nil {
		return &Result{Outcome: OutcomeIdle}
	}

	result := &Result{MessageID: msg.ID}

	req, err := DecodeRequest(msg.Attributes, w.config.TimeZone)
	if err != nil {
		return w.reject(ctx, result, msg, err)
	}

	hits, err := w.search(ctx, req.Cuisine)
	if err != nil {
		result.Outcome = OutcomeRetryable
		result.Err = apperrors.NewSearchUnavailableError(err)
		return result
	}
	result.Hits = len(hits)

	entries := w.enrich(ctx, hits)
	result.Entries = len(entries)

	if err := w.notify(ctx, req, Compose(req, entries)); err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeMalformedWorkItem) {
			return w.reject(ctx, result, msg, err)
		}
		result.Outcome = OutcomeRetryable
		result.Err = apperrors.NewNotificationUnavailableError(err)
		return result
	}

	result.Outcome = OutcomeDelivered
	metrics.SuggestionsDelivered.Observe(float64(result.Entries))
	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Error("failed to delete delivered message; it may be delivered again", map[string]interface{}{
			"messageId": msg.ID,
			"error":     err,
		})
	}
	return result
}

func (w *Worker) claim(ctx context.Context) (*awsclient.QueueMessage, error) {
	ctx, done := w.stage(ctx, "claim")
	msg, err := w.queue.ReceiveOne(ctx)
	done(err)
	return msg, err
}

// reject deletes a message that can never be processed.
func (w *Worker) reject(ctx context.Context, result *Result, msg *awsclient.QueueMessage, err error) *Result {
	result.Outcome = OutcomeRejected
	result.Err = err
	if delErr := w.queue.Delete(ctx, msg.ReceiptHandle); delErr != nil {
		w.logger.Error("failed to delete rejected message", map[string]interface{}{
			"messageId": msg.ID,
			"error":     delErr,
		})
	}
	return result
}

func (w *Worker) search(ctx context.Context, cuisine string) ([]models.SearchHit, error) {
	ctx, done := w.stage(ctx, "search")
	hits, err := w.searcher.Search(ctx, cuisine)
	done(err)
	if err != nil {
		return nil, err
	}
	return TopHits(hits), nil
}

// enrich looks up each hit in order. Misses and lookup errors drop the hit.
func (w *Worker) enrich(ctx context.Context, hits []models.SearchHit) []models.RestaurantDetail {
	ctx, done := w.stage(ctx, "enrich")
	defer done(nil)
	entries := make([]models.RestaurantDetail, 0, len(hits))
	for _, hit := range hits {
		detail, err := w.store.Lookup(ctx, hit.BusinessID)
		switch {
		case errors.Is(err, ErrRestaurantNotFound):
			w.logger.Debug("restaurant not in store", map[string]interface{}{"businessId": hit.BusinessID})
		case err != nil:
			w.logger.Warn("restaurant lookup failed", map[string]interface{}{
				"businessId": hit.BusinessID,
				"error":      err,
			})
		default:
			entries = append(entries, *detail)
		}
	}
	return entries
}

func (w *Worker) notify(ctx context.Context, req *SuggestionRequest, body string) error {
	ctx, done := w.stage(ctx, "notify")
	err := w.notifier.Notify(ctx, req, w.config.Subject, body)
	done(err)
	return err
}

// stage opens a span for one step and returns the func that closes it and
// records the step duration.
func (w *Worker) stage(ctx context.Context, name string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := w.obs.StartSpan(ctx, "pipeline."+name)
	return ctx, func(err error) {
		observability.EndSpan(span, err)
		metrics.PipelineStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	return string(apperrors.CodeOf(err))
}
