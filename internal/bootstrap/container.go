package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/panjf2000/ants/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/controller"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/repository/implementation"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/internal/service"
	"ai-chatbot-be/internal/websocket"
	"ai-chatbot-be/pkg/ai/pipeline"
	"ai-chatbot-be/pkg/embedding"
	"ai-chatbot-be/pkg/llm/factory"
	"ai-chatbot-be/pkg/rag/dialog"
	"ai-chatbot-be/pkg/rag/executor"
	"ai-chatbot-be/pkg/rag/generation"
	"ai-chatbot-be/pkg/rag/intent"
	ragmemory "ai-chatbot-be/pkg/rag/memory"
	"ai-chatbot-be/pkg/rag/planning"
	"ai-chatbot-be/pkg/rag/preprocess"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/tools"

	pktNats "ai-chatbot-be/pkg/nats"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	ChatbotController  controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	MemoryService   service.IMemoryService
	SweeperService  service.ISweeperService
	MonitorService  service.IMonitorService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := initPipelineLogger(cfg.App.PipelineLogPath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "openai" {
		llmBaseURL = cfg.Ai.OpenAIBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/dashboard.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Dialog state: in-process cache backed by the conversation row
	conversationRepo := implementation.NewConversationRepository(db)
	dialogRepo := memory.NewDialogStateRepository(conversationRepo)

	// Worker pool for parallel plan steps
	pool, err := ants.NewPool(cfg.Pipeline.WorkerPool)
	if err != nil {
		log.Printf("[WARN] Failed to create worker pool, plan steps run inline: %v", err)
		pool = nil
	}

	// 5. Action Tools
	toolRegistry := tools.NewRegistry(pipelineLogger)
	if cfg.SMTP.Host != "" {
		toolRegistry.Register(tools.NewEmailTool(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
		))
	}
	if cfg.Tools.CalendarEndpoint != "" {
		toolRegistry.Register(tools.NewCalendarTool(
			cfg.Tools.CalendarEndpoint,
			cfg.Tools.CalendarTokenURL,
			cfg.Tools.CalendarClientID,
			cfg.Tools.CalendarClientSecret,
		))
	}
	if cfg.Tools.CRMEndpoint != "" {
		toolRegistry.Register(tools.NewCRMTool(cfg.Tools.CRMEndpoint, cfg.Tools.CRMAPIKey))
	}
	if cfg.Tools.SearchEndpoint != "" {
		toolRegistry.Register(tools.NewWebSearchTool(cfg.Tools.SearchEndpoint, cfg.Tools.SearchAPIKey))
	}

	// 6. Query Pipeline
	retrievalCfg := retrieval.DefaultConfig()
	retrievalCfg.Threshold = cfg.Pipeline.Threshold
	retrievalCfg.TopK = cfg.Pipeline.TopK

	normalizer := preprocess.NewNormalizer(cfg.Pipeline.BrandToken, cfg.Pipeline.BrandFullForm, pipelineLogger)
	machine := dialog.NewMachine(pipelineLogger)

	exampleCache := intent.NewExampleCache(embeddingProvider, pipelineLogger)
	semanticStage := intent.NewSemanticStage(embeddingProvider, exampleCache, pipelineLogger)
	llmStage := intent.NewLLMStage(llmProvider, pipelineLogger)
	cascade := intent.NewCascade(machine, semanticStage, llmStage, pipelineLogger)

	chunkRepo := implementation.NewDocumentChunkRepository(db)
	retrievalEngine := retrieval.NewEngine(embeddingProvider, chunkRepo, pipelineLogger)

	generator := generation.NewGenerator(llmProvider, pipelineLogger)
	validator := generation.NewValidator(llmProvider, pipelineLogger)
	loop := generation.NewLoop(retrievalEngine, generator, validator, cfg.Pipeline.MaxRetries, pipelineLogger)

	planner := planning.NewPlanner(llmProvider, pipelineLogger)
	handlers := planning.NewHandlers(loop, llmProvider, toolRegistry, pipelineLogger)
	planExecutor := planning.NewExecutor(handlers, pool, pipelineLogger)
	replanner := planning.NewReplanner(planner, planExecutor, llmProvider, pipelineLogger)

	factRepo := implementation.NewMemoryFactRepository(db)
	factExtractor := ragmemory.NewExtractor(llmProvider, pipelineLogger)
	factRetriever := ragmemory.NewRetriever(embeddingProvider, factRepo, pipelineLogger)

	templatePath := pipeline.NewTemplatePath(machine, pipelineLogger)
	ragPath := pipeline.NewRAGPath(loop, factRetriever, retrievalCfg, pipelineLogger)
	planPath := pipeline.NewPlanPath(replanner, retrievalCfg, pipelineLogger)

	pipelineExecutor := executor.NewPipelineExecutor(
		normalizer,
		cascade,
		machine,
		templatePath,
		ragPath,
		planPath,
		dialogRepo,
		pipelineLogger,
	)

	// 7. Services
	embedJobPublisher := service.NewPublisherService(cfg.Keys.EmbedJobTopic, pubSub)
	finishedPublisher := service.NewPublisherService(cfg.Keys.FinishedTopic, pubSub)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedJobTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)
	memoryService := service.NewMemoryService(
		pubSub,
		cfg.Keys.FinishedTopic,
		uowFactory,
		factExtractor,
		embeddingProvider,
	)

	chatService := service.NewChatService(
		uowFactory,
		pipelineExecutor,
		dialogRepo,
		finishedPublisher,
		natsPub,
		sysLogger,
	)
	documentService := service.NewDocumentService(uowFactory, embedJobPublisher, natsPub)
	chatbotService := service.NewChatbotService(uowFactory)

	sweeperService := service.NewSweeperService(
		uowFactory,
		dialogRepo,
		finishedPublisher,
		natsPub,
		sysLogger,
		cfg.Pipeline.SweepInterval,
		cfg.Pipeline.IdleMinutes,
	)
	monitorService := service.NewMonitorService(natsSub, uowFactory, wsHub, sysLogger)

	// 8. Controllers
	widgetMiddleware := serverutils.WidgetMiddleware(chatbotService.VerifyWidgetKey)

	return &Container{
		ChatController:     controller.NewChatController(chatService, widgetMiddleware),
		DocumentController: controller.NewDocumentController(documentService),
		ChatbotController:  controller.NewChatbotController(chatbotService),

		ConsumerService: consumerService,
		MemoryService:   memoryService,
		SweeperService:  sweeperService,
		MonitorService:  monitorService,

		WebSocketHub: wsHub,
	}
}

func initPipelineLogger(logPath string) *log.Logger {
	if logPath == "" {
		logPath = filepath.Join(".", "logs", "pipeline.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
