package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/repository"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/cache"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/database"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/knowledge"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

func main() {
	log.Println("🚀 Seeding built-in interview protocol...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	logger, _ := zap.NewDevelopment()
	repo := repository.NewKnowledgeRepository(db)
	svc := knowledge.NewService(repo, cache.NewMemoryStore(), nil, time.Hour, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.SeedBuiltIn(ctx); err != nil {
		log.Fatalf("Failed to seed built-in knowledge base: %v", err)
	}

	log.Println("✅ Built-in interview protocol is in place")
}
