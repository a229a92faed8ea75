package knowledge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/repositories"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/cache"
)

const (
	maxContentChars      = 50000
	minReadabilityRatio  = 0.8
	contentCacheKeyScope = "kb:content:"
)

// FileArchiver stores original uploads in object storage.
type FileArchiver interface {
	UploadText(ctx context.Context, objectName string, content string) error
	DeleteObject(ctx context.Context, objectName string) error
}

// Service manages knowledge base material: validation, persistence, the
// content cache and the built-in interview protocol.
type Service struct {
	repo     repositories.KnowledgeRepository
	cache    cache.ContentCache
	archiver FileArchiver
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates the knowledge service. The archiver may be nil when no
// object storage is configured.
func NewService(repo repositories.KnowledgeRepository, contentCache cache.ContentCache, archiver FileArchiver, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Service{
		repo:     repo,
		cache:    contentCache,
		archiver: archiver,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Create validates and stores new knowledge base content. fileName is empty
// when the content was pasted rather than uploaded.
func (s *Service) Create(ctx context.Context, name, content, fileName string) (*entities.KnowledgeBase, error) {
	if fileName != "" && strings.ToLower(filepath.Ext(fileName)) != ".txt" {
		return nil, entities.ErrUnsupportedFileType
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	kb := entities.NewKnowledgeBase(name, content, fileName)

	if s.archiver != nil && fileName != "" {
		key := fmt.Sprintf("knowledge/%s/%s", kb.ID, fileName)
		if err := s.archiver.UploadText(ctx, key, content); err != nil {
			// Archive failures are not fatal; the content lives in the DB
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to archive knowledge base file", zap.Error(err))
			}
		} else {
			kb.StorageKey = key
		}
	}

	if err := s.repo.Create(ctx, kb); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("📚 Knowledge base created",
			zap.String("id", kb.ID.String()),
			zap.String("name", kb.Name),
			zap.Int("chars", len(kb.Content)))
	}
	return kb, nil
}

// Get returns a knowledge base by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entities.KnowledgeBase, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all knowledge bases.
func (s *Service) List(ctx context.Context) ([]*entities.KnowledgeBase, error) {
	return s.repo.List(ctx)
}

// Delete removes a knowledge base, its cache entry and its archived file.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	kb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, contentCacheKeyScope+id.String())
	}
	if s.archiver != nil && kb.StorageKey != "" {
		if err := s.archiver.DeleteObject(ctx, kb.StorageKey); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to delete archived knowledge base file", zap.Error(err))
		}
	}
	return nil
}

// Content resolves the text for a session's knowledge base: cache first,
// then the database. A nil id returns the built-in protocol content.
func (s *Service) Content(ctx context.Context, id *uuid.UUID) (string, error) {
	if id == nil {
		return s.builtInContent(ctx), nil
	}

	key := contentCacheKeyScope + id.String()
	if s.cache != nil {
		if content, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			return content, nil
		}
	}

	kb, err := s.repo.FindByID(ctx, *id)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, kb.Content, s.cacheTTL)
	}
	return kb.Content, nil
}

// builtInContent returns the seeded protocol if present, else the embedded
// default.
func (s *Service) builtInContent(ctx context.Context) string {
	if kb, err := s.repo.FindBuiltIn(ctx); err == nil {
		return kb.Content
	}
	return DefaultProtocol
}

// SeedBuiltIn inserts the default interview protocol if no built-in
// knowledge base exists yet.
func (s *Service) SeedBuiltIn(ctx context.Context) error {
	if _, err := s.repo.FindBuiltIn(ctx); err == nil {
		return nil
	}

	kb := entities.NewKnowledgeBase("Legal Interview Protocol", DefaultProtocol, "")
	kb.BuiltIn = true
	if err := s.repo.Create(ctx, kb); err != nil {
		return fmt.Errorf("failed to seed built-in knowledge base: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🌱 Seeded built-in knowledge base", zap.String("id", kb.ID.String()))
	}
	return nil
}

// ValidateContent enforces the plain-text content rules: at most 50,000
// characters and at least 80% printable ASCII.
func ValidateContent(content string) error {
	if content == "" {
		return entities.ErrInvalidRequest
	}
	if len(content) > maxContentChars {
		return entities.ErrContentTooLong
	}

	readable := 0
	for _, b := range []byte(content) {
		if (b >= 0x20 && b <= 0x7E) || b == '\n' || b == '\r' || b == '\t' {
			readable++
		}
	}
	if float64(readable)/float64(len(content)) < minReadabilityRatio {
		return entities.ErrContentNotText
	}
	return nil
}
