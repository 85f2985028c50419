package bootstrap

import (
	"context"
	"encoding/json"
	"log"

	"ipecd-chatbot-be/internal/config"
	"ipecd-chatbot-be/internal/controller"
	"ipecd-chatbot-be/internal/pkg/logger"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/internal/repository/implementation"
	memoryrepo "ipecd-chatbot-be/internal/repository/memory"
	redisrepo "ipecd-chatbot-be/internal/repository/redis"
	"ipecd-chatbot-be/internal/service"
	"ipecd-chatbot-be/internal/websocket"
	"ipecd-chatbot-be/pkg/events"
	"ipecd-chatbot-be/pkg/intent"
	"ipecd-chatbot-be/pkg/learning"
	"ipecd-chatbot-be/pkg/llm"
	"ipecd-chatbot-be/pkg/llm/factory"
	"ipecd-chatbot-be/pkg/llm/failover"
	"ipecd-chatbot-be/pkg/menu"

	pktNats "ipecd-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	MemoryController controller.IMemoryController

	// Exposed for the server to wire the websocket route
	ChatService  service.IChatService
	WebSocketHub *websocket.Hub

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional: without a broker the chatbot still works, only
	// external event fan-out is lost.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// 3. Statistics warehouse and menu catalog
	statsRepo := implementation.NewStatisticsRepository(cfg.Warehouse)

	menuStore := menu.NewFileStore(cfg.Chatbot.MenuFilePath)
	tree := menu.NewTree(menuStore)
	tree.Load()
	generator := menu.NewGenerator(statsRepo)
	enhancer := menu.NewEnhancer(tree, generator)

	// 4. Tools
	toolService, err := service.NewToolService(statsRepo, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build tool registry: %v", err)
	}
	if err := toolService.Registry().ValidateMenu(tree); err != nil {
		log.Fatalf("[FATAL] Menu references unknown tools: %v", err)
	}

	// 5. LLM providers
	primary, err := factory.NewLLMProvider(
		cfg.Ai.PrimaryProvider,
		cfg.Ai.PrimaryModel,
		providerKey(cfg, cfg.Ai.PrimaryProvider),
		cfg.Ai.RequestTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.PrimaryProvider, cfg.Ai.PrimaryModel)

	var fallback llm.LLMProvider
	if cfg.Ai.FallbackProvider != "" && providerKey(cfg, cfg.Ai.FallbackProvider) != "" {
		fallback, err = factory.NewLLMProvider(
			cfg.Ai.FallbackProvider,
			cfg.Ai.FallbackModel,
			providerKey(cfg, cfg.Ai.FallbackProvider),
			cfg.Ai.RequestTimeout,
		)
		if err != nil {
			log.Printf("[WARN] Fallback LLM provider unavailable: %v", err)
			fallback = nil
		} else {
			log.Printf("[INFO] Using fallback LLM provider: %s (%s)", cfg.Ai.FallbackProvider, cfg.Ai.FallbackModel)
		}
	}
	chain := failover.NewChain(primary, fallback)

	// 6. Intent pipeline
	detector := intent.NewDetector(tree)
	detector.LoadVocabulary(context.Background(), statsRepo)
	classifier := intent.NewClassifier(chain)

	// 7. Learning memory and chat logs
	memoryRepo := implementation.NewMemoryRepository(db)
	learningMemory := learning.NewMemory(memoryRepo, learning.Config{
		Weights: learning.Weights{
			Content:  cfg.Chatbot.ContentWeight,
			Sequence: cfg.Chatbot.SequenceWeight,
			KeyBonus: cfg.Chatbot.KeyTermBonus,
		},
		ReadThreshold:  cfg.Chatbot.ReadThreshold,
		WriteThreshold: cfg.Chatbot.WriteThreshold,
		CandidateLimit: cfg.Chatbot.MemoryCandidateSize,
	})
	chatLogRepo := implementation.NewChatLogRepository(db)

	// 8. Session storage
	var sessionRepo contract.SessionRepository
	if cfg.App.SessionStore == "redis" {
		redisSessions, err := redisrepo.NewSessionRepository(cfg.App.RedisURL, cfg.Chatbot.SessionTTL)
		if err != nil {
			log.Printf("[WARN] Redis session store unavailable, falling back to memory: %v", err)
			sessionRepo = memoryrepo.NewSessionRepository(cfg.Chatbot.SessionTTL, cfg.Chatbot.SessionPurgeEvery)
		} else {
			log.Printf("[INFO] Using Redis session store")
			sessionRepo = redisSessions
		}
	} else {
		sessionRepo = memoryrepo.NewSessionRepository(cfg.Chatbot.SessionTTL, cfg.Chatbot.SessionPurgeEvery)
	}

	// 9. Services
	enricher := service.NewEnrichService(chain, sysLogger)
	chatService := service.NewChatService(
		cfg.Chatbot,
		tree,
		enhancer,
		detector,
		classifier,
		chain,
		toolService,
		learningMemory,
		sessionRepo,
		statsRepo,
		enricher,
		pubSub,
		sysLogger,
	)
	memoryService := service.NewMemoryService(learningMemory, chatLogRepo, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		service.ChatTurnTopic,
		chatLogRepo,
		learningMemory,
		natsPub,
		sysLogger,
	)

	// 10. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// Recorded turns come back over NATS and fan out to every open tab of
	// the session, so a second tab sees answers produced in the first.
	if natsSub != nil {
		err := natsSub.Subscribe("events.CHAT_TURN_RECORDED", "chatbot-ws", func(ctx context.Context, event events.Event) error {
			sessionID, _ := event.Payload()["session_id"].(string)
			if sessionID == "" {
				return nil
			}
			payload, err := json.Marshal(event.Payload())
			if err != nil {
				return err
			}
			wsHub.SendToSession(sessionID, payload)
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to chat turn events: %v", err)
		}
	}

	return &Container{
		ChatController:   controller.NewChatController(chatService),
		MemoryController: controller.NewMemoryController(memoryService),
		ChatService:      chatService,
		WebSocketHub:     wsHub,
		ConsumerService:  consumerService,
	}
}

func providerKey(cfg *config.Config, provider string) string {
	switch provider {
	case "groq":
		return cfg.Keys.Groq
	case "openai":
		return cfg.Keys.OpenAI
	default:
		return ""
	}
}
