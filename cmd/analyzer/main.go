// cmd/analyzer/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/database"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/observability"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/kpi"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/market"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/notify"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/pipeline"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/providers/analysis"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/providers/scraper"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/report"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/server"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/store"
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

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting listing analyzer...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Stores ---
	submissions := store.NewSubmissionStore(pg.DB, log)
	kpiStore := store.NewKPIStore(pg.DB, log)
	reports := store.NewReportStore(pg.DB, log)

	// --- Provider clients ---
	scrapeClient := scraper.NewClient(cfg.Providers.Scraper, log)
	analysisClient, err := analysis.NewClient(cfg.Providers.Analysis, log)
	if err != nil {
		zapLog.Fatal("analysis client init failed", zap.Error(err))
	}

	// --- Market estimator ---
	comps := market.NewCachedCompSource(
		market.NewElasticCompSource(esClient.Client, cfg.Database.Elasticsearch.CompIndex),
		redisClient.Client,
		time.Duration(cfg.Pipeline.CompCacheTTL)*time.Second,
		log,
	)
	estimator := market.NewEstimator(comps, log)

	// --- Notifier (consent-gated) ---
	notifier, err := notify.New(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}

	// --- Pipeline ---
	claimer := pipeline.NewClaimer(redisClient.Client, time.Duration(cfg.Pipeline.ClaimLease)*time.Second, log)
	queue := pipeline.NewQueue(redisClient.Client, cfg.Pipeline.QueueName, cfg.Pipeline.QueueRetries, log)
	orchestrator := pipeline.NewOrchestrator(
		submissions, scrapeClient, analysisClient, estimator, notifier, queue, claimer, obs,
		pipeline.Options{
			MaxRetries: cfg.Providers.Scraper.MaxRetries,
			RetryDelay: time.Duration(cfg.Providers.Scraper.RetryDelay) * time.Second,
		},
		log,
	)

	// --- Downstream queue handlers ---
	assembler := report.NewAssembler(submissions, reports, log)
	ingestor := kpi.NewIngestor(submissions, kpiStore, log)
	queue.Register(pipeline.JobReportAssembly, assembler.HandleJob)
	queue.Register(pipeline.JobKPIIngestion, ingestor.HandleJob)

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		queue.Work(workerCtx)
	}()

	// --- HTTP server ---
	srv := server.New(cfg.Server, submissions, orchestrator, kpiStore, log)
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	zapLog.Info("Listing analyzer started", zap.Int("port", cfg.Server.Port))

	// --- Wait for shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		zapLog.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}

	stopWorker()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		zapLog.Warn("queue worker did not stop before deadline")
	}

	zapLog.Info("Listing analyzer stopped")
}
