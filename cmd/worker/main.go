package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"secondbrain/config"
	"secondbrain/internal/brain"
	"secondbrain/internal/classify"
	"secondbrain/internal/db"
	"secondbrain/internal/decision"
	"secondbrain/internal/mq"
	"secondbrain/internal/mqhandler"
	"secondbrain/internal/notify"
	"secondbrain/internal/prioritize"
	"secondbrain/internal/processor"
	"secondbrain/internal/repository"
	"secondbrain/internal/semantic"
	"secondbrain/pkg/circuitbreaker"
	"secondbrain/pkg/logger"
	"secondbrain/pkg/redisclient"
	"secondbrain/pkg/util"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	zlog := logger.NewLogger()
	defer zlog.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("DB initialization failed", zap.Error(err))
	}

	// 3. Init Redis
	rdb := redisclient.New(cfg.Redis)

	// 4. Init oracle + stores
	llmClient := classify.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.EmbeddingModel)
	oracle := classify.NewBreakerOracle(llmClient, circuitbreaker.DefaultConfig())

	taskRepo := repository.NewTaskRepository(dbConn)
	noteRepo := repository.NewNoteRepository(dbConn)
	index := semantic.NewStore(rdb, llmClient, zlog)
	notifier := notify.NewSlackNotifier(cfg.Slack.WebhookLog, cfg.Slack.WebhookAlert, zlog)

	// 5. Init pipeline
	b := brain.NewBrain(
		processor.NewProcessor(oracle, zlog),
		prioritize.NewPrioritizer(),
		decision.NewEngine(zlog),
		taskRepo,
		noteRepo,
		index,
		notifier,
		zlog,
	)

	// 6. Init capture.received consumer
	deduper := util.NewDeduper(rdb, 10*time.Minute, zlog)
	handler := mqhandler.NewCaptureReceivedHandler(b, deduper, zlog)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, mq.CaptureReceived, zlog)
	if err != nil {
		log.Fatalf("failed to init consumer: %v", err)
	}
	defer consumer.Close()
	consumer.SetHandler(handler.Handle)

	// 7. Expose metrics
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.Metrics.Port, nil); err != nil {
			zlog.Fatal("metrics server failed", zap.Error(err))
		}
	}()

	// 8. Consume (blocks)
	if err := consumer.StartConsuming(); err != nil {
		zlog.Fatal("consumer start failed", zap.Error(err))
	}
}
