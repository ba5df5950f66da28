package main

import (
	"log"

	"go.uber.org/zap"

	"secondbrain/config"
	"secondbrain/internal/api"
	"secondbrain/internal/brain"
	"secondbrain/internal/classify"
	"secondbrain/internal/db"
	"secondbrain/internal/decision"
	"secondbrain/internal/mq"
	"secondbrain/internal/notify"
	"secondbrain/internal/prioritize"
	"secondbrain/internal/processor"
	"secondbrain/internal/rag"
	"secondbrain/internal/repository"
	"secondbrain/internal/semantic"
	"secondbrain/pkg/circuitbreaker"
	"secondbrain/pkg/logger"
	"secondbrain/pkg/redisclient"
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

	// 4. Init RabbitMQ producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		log.Fatalf("failed to init producer: %v", err)
	}
	defer producer.Close()

	// 5. Init oracle + stores
	llmClient := classify.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.EmbeddingModel)
	oracle := classify.NewBreakerOracle(llmClient, circuitbreaker.DefaultConfig())

	taskRepo := repository.NewTaskRepository(dbConn)
	noteRepo := repository.NewNoteRepository(dbConn)
	index := semantic.NewStore(rdb, llmClient, zlog)
	notifier := notify.NewSlackNotifier(cfg.Slack.WebhookLog, cfg.Slack.WebhookAlert, zlog)

	// 6. Init pipeline
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

	// 7. Init handlers + router
	captureHandler := api.NewCaptureHandler(b, producer, zlog)
	brainHandler := api.NewBrainHandler(b)
	askHandler := api.NewAskHandler(rag.NewService(index, llmClient, zlog), zlog)
	router := api.NewRouter(captureHandler, brainHandler, askHandler)

	// 8. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		zlog.Fatal("server start failed", zap.Error(err))
	}
}
