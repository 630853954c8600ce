package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	adminapi "github.com/clarainova/clara-backend/internal/api/admin"
	chatapi "github.com/clarainova/clara-backend/internal/api/chat"
	feedbackapi "github.com/clarainova/clara-backend/internal/api/feedback"
	searchapi "github.com/clarainova/clara-backend/internal/api/search"
	"github.com/clarainova/clara-backend/internal/api"
	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/integration/embedding"
	"github.com/clarainova/clara-backend/internal/integration/llm"
	"github.com/clarainova/clara-backend/internal/integration/websearch"
	"github.com/clarainova/clara-backend/internal/pkg/chunker"
	"github.com/clarainova/clara-backend/internal/pkg/extract"
	"github.com/clarainova/clara-backend/internal/pkg/formatter"
	"github.com/clarainova/clara-backend/internal/pkg/ratelimit"
	"github.com/clarainova/clara-backend/internal/pkg/synonyms"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
	"github.com/clarainova/clara-backend/internal/repository"
	"github.com/clarainova/clara-backend/internal/storage"
	chatuc "github.com/clarainova/clara-backend/internal/usecase/chat"
	documentuc "github.com/clarainova/clara-backend/internal/usecase/document"
	exportuc "github.com/clarainova/clara-backend/internal/usecase/export"
	feedbackuc "github.com/clarainova/clara-backend/internal/usecase/feedback"
	ingestuc "github.com/clarainova/clara-backend/internal/usecase/ingest"
	searchuc "github.com/clarainova/clara-backend/internal/usecase/search"
)

// Build creates and wires up all application components
func Build() (*App, error) {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger, err := setupLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	logger.Info("Starting application",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.Bool("mocks_enabled", cfg.EnableMocks))

	// Initialize database
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	// Run migrations
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database migrations completed")

	// Initialize repositories
	docRepo := repository.NewDocumentPostgres(db)
	chunkRepo := repository.NewChunkPostgres(db)
	eventRepo := repository.NewEventPostgres(db)
	analyticsRepo := repository.NewAnalyticsPostgres(db)
	frontendErrorRepo := repository.NewFrontendErrorPostgres(db)

	// Initialize object storage
	store, err := storage.NewMinioStorage(cfg.StorageCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup object storage: %w", err)
	}

	// Initialize rate limiter (Redis when configured, in-process otherwise)
	var limiter ratelimit.Limiter
	var redisClient *redis.Client
	if cfg.RedisCfg.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisCfg.Addr,
			Password: cfg.RedisCfg.Password,
			DB:       cfg.RedisCfg.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(redisClient)
		logger.Info("Using Redis rate limiter", zap.String("addr", cfg.RedisCfg.Addr))
	} else {
		limiter = ratelimit.NewLocalLimiter()
		logger.Info("Using in-process rate limiter")
	}

	// Initialize connectors (with mock support)
	var llmConnector chatuc.LLMConnector
	var transcriber ingestuc.Transcriber
	var chatEmbedder searchuc.Embedder
	var batchEmbedder ingestuc.Embedder
	var webSearcher chatuc.WebSearchConnector

	if cfg.EnableMocks {
		logger.Warn("Mocks enabled, using mock connectors")
		llmMock := llm.NewMockConnector(logger)
		llmConnector, transcriber = llmMock, llmMock
		embedMock := embedding.NewMockConnector(logger)
		chatEmbedder, batchEmbedder = embedMock, embedMock
		webSearcher = websearch.NewMockConnector(logger)
	} else {
		llmConn := llm.NewConnector(cfg.LLMConnectorCfg, logger)
		llmConnector, transcriber = llmConn, llmConn
		embedConn := embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
		chatEmbedder, batchEmbedder = embedConn, embedConn
		webSearcher = websearch.NewConnector(cfg.WebSearchConnectorCfg, logger)
	}

	// Initialize shared helpers
	expander := synonyms.NewExpander(cfg.Synonyms)
	reqValidator := validator.NewValidator(cfg.LimitsCfg)
	extractor := extract.New(0)
	splitter := chunker.New(0, 0)

	// Initialize usecases
	searchUsecase := searchuc.NewUsecase(chunkRepo, chatEmbedder, expander, reqValidator, logger)
	ingestUsecase := ingestuc.NewUsecase(
		docRepo,
		chunkRepo,
		eventRepo,
		store,
		extractor,
		splitter,
		batchEmbedder,
		transcriber,
		&cfg.EmbeddingConnectorCfg.Retry,
		logger,
	)
	chatUsecase := chatuc.NewUsecase(searchUsecase, llmConnector, webSearcher, analyticsRepo, reqValidator, logger)
	exportUsecase := exportuc.NewUsecase(formatter.NewFactory(), reqValidator, logger)
	feedbackUsecase := feedbackuc.NewUsecase(analyticsRepo, frontendErrorRepo, reqValidator, logger)
	documentUsecase := documentuc.NewUsecase(docRepo, eventRepo, store, reqValidator, logger)

	// Initialize handlers
	handlers := api.Handlers{
		Chat:     chatapi.NewHandler(chatUsecase, exportUsecase, cfg.LLMConfigured()),
		Search:   searchapi.NewHandler(searchUsecase),
		Admin:    adminapi.NewHandler(documentUsecase, ingestUsecase),
		Feedback: feedbackapi.NewHandler(feedbackUsecase),
	}

	// Setup router
	router := api.SetupRouter(
		handlers,
		limiter,
		cfg.RateLimitCfg,
		cfg.AdminKey,
		api.HealthStatus{
			Version:       cfg.Version,
			LLMConfigured: cfg.LLMConfigured(),
			DBConfigured:  db != nil,
			StorageReady:  store.Ready(),
		},
		logger,
	)

	// Create HTTP server. WriteTimeout stays unset because chat responses
	// stream over SSE for as long as the provider keeps producing tokens.
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		server: server,
		db:     db,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// setupLogger creates a zap logger honoring the configured level
func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.Environment == "local" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
