// internal/workers/pipeline/dispatch-suggestions/poller.go
package dispatchsuggestions

import (
	"context"
	"sync"
	"time"

	"dining-concierge/internal/common/logger"
)

// Poller invokes ProcessOne on a schedule. After a Delivered or Rejected
// item it polls again immediately; after Idle or Retryable it waits one
// interval.
type Poller struct {
	worker      *Worker
	interval    time.Duration
	timeout     time.Duration
	concurrency int
	logger      logger.Logger
}

func NewPoller(w *Worker, interval, timeout time.Duration, concurrency int, log logger.Logger) *Poller {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Poller{
		worker:      w,
		interval:    interval,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      log.WithFields(map[string]interface{}{"component": "poller"}),
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", map[string]interface{}{
		"interval":    p.interval.String(),
		"concurrency": p.concurrency,
	})

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx)
		}()
	}
	wg.Wait()

	p.logger.Info("poller stopped", nil)
}

func (p *Poller) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		outcome := p.runOnce(ctx)
		if outcome == OutcomeDelivered || outcome == OutcomeRejected {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) Outcome {
	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.worker.ProcessOne(runCtx).Outcome
}
