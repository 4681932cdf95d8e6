// internal/workers/pipeline/dispatch-suggestions/handler.go
package dispatchsuggestions

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
)

const (
	TaskType = "dispatch-suggestions"
)

// Handler runs ProcessOne once per Zeebe job, so a BPMN timer can act as the
// pipeline's scheduler.
type Handler struct {
	config       *Config
	worker       *Worker
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, w *Worker, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		worker:       w,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}
	return h.completeJob(ctx, client, job, output)
}

// Execute runs one pipeline pass. Retryable outcomes come back as errors so
// the job is failed with retries; every other outcome completes the job.
func (h *Handler) Execute(ctx context.Context) (*Output, error) {
	result := h.worker.ProcessOne(ctx)
	if result.Outcome == OutcomeRetryable {
		return nil, result.Err
	}
	return result.Output(), nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
