package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"ai-studybot-be/internal/config"
	"ai-studybot-be/internal/controller"
	"ai-studybot-be/internal/handler"
	"ai-studybot-be/internal/pkg/logger"
	"ai-studybot-be/internal/pkg/mailer"
	"ai-studybot-be/internal/repository/contract"
	"ai-studybot-be/internal/repository/implementation"
	"ai-studybot-be/internal/repository/memory"
	redisrepo "ai-studybot-be/internal/repository/redis"
	"ai-studybot-be/internal/service"
	"ai-studybot-be/internal/websocket"
	"ai-studybot-be/pkg/classifier"
	"ai-studybot-be/pkg/events"
	"ai-studybot-be/pkg/llm/factory"
	"ai-studybot-be/pkg/requestlog"
	"ai-studybot-be/pkg/workflow"

	pktNats "ai-studybot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const linkClassifiedTopic = "LINK_CLASSIFIED"

type Container struct {
	// Controllers
	AssistantController  controller.IAssistantController
	ClassifierController controller.IClassifierController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ChatWsHandler *handler.ChatWsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	} else {
		log.Printf("[WARN] SMTP not configured, email export disabled")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmCfg := factory.Config{
		Provider:     cfg.Ai.LLMProvider,
		Model:        cfg.Ai.LLMModel,
		ClientID:     cfg.Ai.GigaChatClientID,
		ClientSecret: cfg.Ai.GigaChatClientSecret,
	}
	if cfg.Ai.LLMProvider == "ollama" {
		llmCfg.BaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(llmCfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session Storage
	var sessionRepo contract.SessionRepository
	if cfg.App.RedisEnabled {
		sessionRepo, err = redisrepo.NewSessionRepository(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Redis session store unavailable, using in-memory: %v", err)
			sessionRepo = memory.NewSessionRepository()
		} else {
			log.Printf("[INFO] Using Redis session store")
		}
	} else {
		sessionRepo = memory.NewSessionRepository()
	}

	// 5. Infrastructure
	// NATS
	var natsPub *pktNats.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Redis client for the websocket hub (cross-instance delivery)
	var rdb *redis.Client
	if cfg.App.RedisEnabled {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
			rdb = nil
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// NATS consumer: documents-ready events reach the user's open
	// connections regardless of which instance processed the turn.
	if cfg.App.NatsEnabled {
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			err = natsSub.Subscribe("studybot."+events.TypeDocumentsReady, "studybot-notifier", func(ctx context.Context, event events.Event) error {
				payload := event.Payload()
				userID, _ := payload["user_id"].(string)
				if userID == "" {
					return nil
				}
				wsHub.Send(userID, map[string]interface{}{
					"type": "notification",
					"data": map[string]interface{}{
						"title":      "Documents ready",
						"message":    "Your resume and cover letter are ready.",
						"session_id": payload["session_id"],
					},
				})
				return nil
			})
			if err != nil {
				log.Printf("[WARN] Failed to subscribe to NATS events: %v", err)
			}
		}
	}

	// Transcript archive (optional, needs a database)
	var transcriptRepo contract.TranscriptRepository
	if db != nil {
		transcriptRepo = implementation.NewTranscriptRepository(db)
	} else {
		log.Printf("[WARN] No database configured, transcript archiving disabled")
	}

	// 6. Domain components
	wfLogger := initWorkflowLogger()
	dispatcher := workflow.NewDispatcher(llmProvider, wfLogger)

	store := requestlog.NewStore(cfg.App.RequestLogPath)
	clf := classifier.NewClassifier(llmProvider, store, wfLogger)
	reporter := classifier.NewReporter(llmProvider, store, wfLogger)

	// 7. Services
	publisherService := service.NewPublisherService(linkClassifiedTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, linkClassifiedTopic, wsHub)

	assistantService := service.NewAssistantService(
		sessionRepo,
		transcriptRepo,
		dispatcher,
		emailService,
		natsPub,
		wfLogger,
	)
	classifierService := service.NewClassifierService(
		clf,
		reporter,
		llmProvider,
		publisherService,
		natsPub,
		wfLogger,
	)

	// 8. WebSocket Handler
	chatWsHandler := handler.NewChatWsHandler(wsHub, assistantService, sysLogger)

	return &Container{
		AssistantController:  controller.NewAssistantController(assistantService),
		ClassifierController: controller.NewClassifierController(classifierService),
		ChatWsHandler:        chatWsHandler,
		WebSocketHub:         wsHub,
		ConsumerService:      consumerService,
	}
}

func initWorkflowLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "workflow.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[WORKFLOW] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
