// cmd/dialog-server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/dialog"
	"dining-concierge/internal/fulfillment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "dialog-server"})

	zapLog.Info("Starting dialog server...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsclient.LoadConfig(ctx, cfg.AWS.Region, cfg.AWS.Endpoint)
	if err != nil {
		zapLog.Fatal("aws config failed", zap.Error(err))
	}

	dialogCfg, err := dialog.LoadConfig(cfg.Dialog)
	if err != nil {
		zapLog.Fatal("invalid dialog configuration", zap.Error(err))
	}

	queue := awsclient.NewWorkQueue(awsclient.NewSQSClient(awsCfg), cfg.Queue)
	machine := dialog.NewStateMachine(
		dialog.NewValidator(dialogCfg),
		fulfillment.NewEnqueuer(queue, log),
		log,
	)

	mux := http.NewServeMux()
	mux.Handle("/lex/code-hook", dialog.NewHookHandler(dialog.NewDispatcher(machine, log), log))

	if err := cfg.ValidateRecognizer(); err != nil {
		zapLog.Warn("chat proxy disabled", zap.Error(err))
	} else {
		mux.Handle("/chat", dialog.NewChatProxy(awsclient.NewLexClient(awsCfg), cfg.Recognizer, log))
		zapLog.Info("chat proxy enabled", zap.String("botId", cfg.Recognizer.BotID))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("Dialog server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("Dialog server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping dialog server", zap.Error(err))
	}

	zapLog.Info("Dialog server stopped gracefully")
}
