package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/LuqmanKt98/testify-ai-avatar/pkg/validator"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/handler"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/repository"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/cache"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/database"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/external/avatar"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/storage"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/stt"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/analysis"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/auth"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/conversation"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/knowledge"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/live"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/session"
	pkgai "github.com/LuqmanKt98/testify-ai-avatar/pkg/ai"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via the migrate script.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping startup migrations; use the migrate script in CI/CD/production")
	}

	// Initialize cache: Redis when reachable, in-memory fallback otherwise
	log.Println("📦 Connecting to Redis...")
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStartup()

	var contentCache cache.ContentCache
	redisCache, err := cache.NewRedisCache(startupCtx, cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, using in-memory cache: %v", err)
		contentCache = cache.NewMemoryStore()
	} else {
		contentCache = redisCache
		defer redisCache.Close()
	}

	// Initialize object storage
	log.Println("🗄️  Connecting to MinIO...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	sessionRepo := repository.NewSessionRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)

	// Initialize LLM provider chain
	log.Println("🤖 Initializing LLM providers...")
	var providers []pkgai.ChatClient
	if ilmu := pkgai.NewIlmuClient(&cfg.LLM); ilmu.Configured() {
		providers = append(providers, ilmu)
	}
	if openai := pkgai.NewOpenAIClient(&cfg.LLM); openai.Configured() {
		providers = append(providers, openai)
	}
	chain := conversation.NewChain(logger, providers...)
	responder := conversation.NewResponder(chain, logger)
	analyzer := analysis.NewService(chain, logger)

	// Initialize avatar client
	log.Println("🎭 Initializing avatar client...")
	avatarClient := avatar.NewClient(cfg)
	if cfg.Avatar.UseMock {
		log.Println("⚠️  Avatar client running in MOCK mode (no vendor account needed)")
	} else {
		log.Printf("✅ Avatar API: %s", cfg.Avatar.BaseURL)
	}
	roomConnector := avatar.NewRoomConnector()

	// Initialize speech recognition
	log.Println("🎤 Initializing speech recognition...")
	speech := stt.NewAssemblyAI(&cfg.Speech)
	if speech.Available() {
		log.Println("✅ Streaming recognition enabled")
	} else {
		log.Println("⚠️  No speech key configured; batch path only")
	}

	// Initialize knowledge service and seed the built-in protocol
	log.Println("📚 Initializing knowledge service...")
	knowledgeService := knowledge.NewService(knowledgeRepo, contentCache, minioClient, cfg.Redis.KBTTL, logger)
	if err := knowledgeService.SeedBuiltIn(startupCtx); err != nil {
		log.Printf("⚠️  Failed to seed built-in protocol: %v", err)
	}

	// Initialize live session manager
	log.Println("🎬 Initializing live session manager...")
	liveManager := live.NewManager(sessionRepo, knowledgeService, avatarClient, roomConnector, speech, speech, minioClient, responder, analyzer, logger)

	// Initialize session service
	sessionService := session.NewService(sessionRepo, knowledgeRepo, liveManager, logger)

	// Initialize auth service
	log.Println("🔑 Initializing auth service...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	authService := auth.NewService(cfg.StaticUsers(), jwtManager, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)
	sessionHandler := handler.NewSession(sessionService, logger)
	knowledgeHandler := handler.NewKnowledge(knowledgeService, logger)
	liveHandler := handler.NewLive(sessionService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, authHandler, sessionHandler, knowledgeHandler, liveHandler, authService)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// End running sessions so their reports are not lost
	liveManager.Shutdown(ctx)

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
