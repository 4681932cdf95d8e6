// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/camunda"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"

	ds "dining-concierge/internal/workers/pipeline/dispatch-suggestions"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// closer releases whatever connection backs the restaurant store.
type closer func() error

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "worker-manager"})

	zapLog.Info("Starting worker manager...")

	if err := cfg.ValidatePipeline(); err != nil {
		zapLog.Fatal("invalid pipeline configuration", zap.Error(err))
	}

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	if endpoint := cfg.Tracing.JaegerEndpoint; endpoint != "" {
		if err := obs.EnableTracing("worker-manager", endpoint); err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
		} else {
			zapLog.Info("tracing enabled", zap.String("collector", endpoint))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsclient.LoadConfig(ctx, cfg.AWS.Region, cfg.AWS.Endpoint)
	if err != nil {
		zapLog.Fatal("aws config failed", zap.Error(err))
	}
	queue := awsclient.NewWorkQueue(awsclient.NewSQSClient(awsCfg), cfg.Queue)

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Search.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	store, closeStore, err := buildStore(ctx, cfg, awsCfg, zapLog)
	if err != nil {
		zapLog.Fatal("restaurant store failed", zap.Error(err))
	}
	defer closeStore()

	notifier := buildNotifier(cfg, awsCfg)

	pipelineCfg := ds.LoadConfig(cfg)
	w := ds.NewWorker(
		pipelineCfg,
		queue,
		ds.NewElasticsearchSearcher(esClient.Client, pipelineCfg),
		store,
		notifier,
		obs,
		log,
	)

	// --- Scheduling: Zeebe jobs or the built-in poller ---
	var (
		zeebe      *camunda.Client
		jobWorker  *camunda.CamundaWorker
		pollerDone = make(chan struct{})
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		jobWorker = camunda.NewWorker(
			zeebe.GetClient(),
			cfg.Camunda.TaskType,
			cfg.Camunda.MaxJobsActive,
			config.GetDuration(cfg.Camunda.Timeout),
			ds.NewHandler(pipelineCfg, w, log),
			log,
		)
		close(pollerDone)
	} else {
		poller := ds.NewPoller(
			w,
			config.GetDuration(cfg.Pipeline.PollInterval),
			pipelineCfg.Timeout,
			cfg.Pipeline.Concurrency,
			log,
		)
		go func() {
			defer close(pollerDone)
			poller.Run(ctx)
		}()
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if zeebe != nil {
			if err := zeebe.HealthCheck(r.Context()); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
				return
			}
		}
		if err := esClient.Ping(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "search unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if jobWorker != nil {
		jobWorker.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	select {
	case <-pollerDone:
	case <-shutdownCtx.Done():
		zapLog.Warn("poller did not stop before shutdown deadline")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping meter provider", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildStore connects the configured restaurant store backend.
func buildStore(ctx context.Context, cfg *config.Config, awsCfg aws.Config, zapLog *zap.Logger) (ds.RestaurantStore, closer, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.StorePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Store.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, noop, err
		}
		zapLog.Info("PostgreSQL connected successfully")
		return ds.NewPostgresStore(pg.DB, cfg.Store.Postgres.Table), pg.Close, nil

	case config.StoreRedis:
		rdb := database.NewRedis(cfg.Store.Redis)
		err := retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			_ = rdb.Close()
			return nil, noop, err
		}
		zapLog.Info("Redis connected successfully")
		return ds.NewRedisStore(rdb.Client, cfg.Store.Redis.KeyPrefix), rdb.Close, nil

	default:
		return ds.NewDynamoDBStore(awsclient.NewDynamoDBClient(awsCfg), cfg.Store.DynamoDB), noop, nil
	}
}

func buildNotifier(cfg *config.Config, awsCfg aws.Config) ds.Notifier {
	if cfg.Notify.Channel == config.ChannelSES {
		return ds.NewSESNotifier(awsclient.NewSESClient(awsCfg), cfg.Notify.FromEmail)
	}
	return ds.NewSNSNotifier(awsclient.NewSNSClient(awsCfg), cfg.Notify.TopicARN)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
