// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"fra-workers/internal/api"
	"fra-workers/internal/common/aws"
	"fra-workers/internal/common/camunda"
	"fra-workers/internal/common/config"
	"fra-workers/internal/common/database"
	apphttp "fra-workers/internal/common/http"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/observability"
	"fra-workers/internal/eligibility"

	ae "fra-workers/internal/workers/assessment/assess-eligibility"
	ia "fra-workers/internal/workers/assessment/index-assessment"
	nao "fra-workers/internal/workers/assessment/notify-assessment-outcome"
	ra "fra-workers/internal/workers/assessment/record-assessment"
	sa "fra-workers/internal/workers/assessment/summarize-assessments"
	vas "fra-workers/internal/workers/assessment/validate-assessment-submission"
)

var connectRetry = &camunda.RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.Build(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		logger.New("info", "console").Fatal("logger build failed", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(cfg.Observability.ServiceName,
		observability.WithSampleRatio(cfg.Observability.TraceSampleRatio),
		observability.AsGlobal(),
	)
	if err != nil {
		log.Warn("observability setup incomplete", map[string]interface{}{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres client failed", zap.Error(err))
	}
	defer pg.Close()
	err = camunda.RetryWithBackoff(ctx, connectRetry, "PostgreSQL connection", func(ctx context.Context) error {
		if err := pg.Ping(ctx); err != nil {
			return err
		}
		return pg.EnsureSchema(ctx)
	}, log)
	if err != nil {
		zapLog.Fatal("postgres unavailable after retries", zap.Error(err))
	}
	log.Info("PostgreSQL connected", nil)

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch client failed", zap.Error(err))
	}
	err = camunda.RetryWithBackoff(ctx, connectRetry, "Elasticsearch connection", func(ctx context.Context) error {
		if err := es.Ping(ctx); err != nil {
			return err
		}
		return es.EnsureIndex(ctx, cfg.Assessment.IndexName)
	}, log)
	if err != nil {
		zapLog.Fatal("elasticsearch unavailable after retries", zap.Error(err))
	}
	log.Info("Elasticsearch connected", map[string]interface{}{"index": cfg.Assessment.IndexName})

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis client failed", zap.Error(err))
	}
	defer rdb.Close()
	if err := camunda.RetryWithBackoff(ctx, connectRetry, "Redis connection", rdb.Ping, log); err != nil {
		zapLog.Fatal("redis unavailable after retries", zap.Error(err))
	}
	log.Info("Redis connected", nil)

	// --- AWS (SES / SNS) ---
	awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("aws config load failed", zap.Error(err))
	}
	sesClient := aws.NewSESClient(awsCfg)
	snsClient := aws.NewSNSClient(awsCfg)

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	assessor, err := eligibility.NewAssessor(cfg.Assessment.Policy())
	if err != nil {
		zapLog.Fatal("scoring policy rejected", zap.Error(err))
	}

	// --- Workers ---
	var workers []worker.JobWorker
	register := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}

	{
		wcfg := vas.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, vas.TaskType, wcfg.Timeout)
		wcfg.Policy = assessor.Policy()
		register(vas.TaskType, vas.NewHandler(wcfg, log))
	}
	{
		wcfg := ae.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, ae.TaskType, wcfg.Timeout)
		wcfg.CacheTTL = config.GetDuration(cfg.Assessment.CacheTTL)
		register(ae.TaskType, ae.NewHandler(wcfg, assessor, rdb.Client, obs, log))
	}
	{
		wcfg := ra.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, ra.TaskType, wcfg.Timeout)
		register(ra.TaskType, ra.NewHandler(wcfg, pg.DB, log))
	}
	{
		wcfg := ia.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, ia.TaskType, wcfg.Timeout)
		wcfg.IndexName = cfg.Assessment.IndexName
		register(ia.TaskType, ia.NewHandler(wcfg, es.Client, log))
	}
	{
		wcfg := nao.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, nao.TaskType, wcfg.Timeout)
		wcfg.EmailEnabled = cfg.Notifications.Email.Enabled
		wcfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		if cfg.Notifications.Email.FromEmail != "" {
			wcfg.FromEmail = cfg.Notifications.Email.FromEmail
		}
		if cfg.Notifications.SMS.SenderID != "" {
			wcfg.SenderID = cfg.Notifications.SMS.SenderID
		}
		register(nao.TaskType, nao.NewHandler(wcfg, sesClient, snsClient, log))
	}
	{
		wcfg := sa.LoadConfig()
		wcfg.Timeout = workerTimeout(cfg, sa.TaskType, wcfg.Timeout)
		register(sa.TaskType, sa.NewHandler(wcfg, pg.DB, rdb.Client, log))
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- API, health & metrics ---
	apiServer := api.New(api.Config{
		MaxBatchSize:     cfg.HTTP.MaxBatchSize,
		BatchConcurrency: cfg.Assessment.BatchConcurrency,
	}, assessor, obs, map[string]api.Pinger{
		"postgres":      pg,
		"elasticsearch": es,
		"redis":         rdb,
		"zeebe":         pingFunc(zeebe.HealthCheck),
	}, log)

	srv := apphttp.NewServer(
		fmt.Sprintf(":%d", cfg.HTTP.Port),
		apiServer.Routes(),
		config.GetDuration(cfg.HTTP.ReadTimeout),
		config.GetDuration(cfg.HTTP.WriteTimeout),
	)
	go func() {
		log.Info("API server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("API server failed", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped", nil)
}

// workerTimeout prefers the configured per-worker timeout over the worker default.
func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return fallback
}
