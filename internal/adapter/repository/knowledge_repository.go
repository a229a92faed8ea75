package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// KnowledgeRepository implements the knowledge repository interface using GORM
type KnowledgeRepository struct {
	db *gorm.DB
}

// NewKnowledgeRepository creates a new knowledge repository
func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{
		db: db,
	}
}

// Create creates a knowledge base
func (r *KnowledgeRepository) Create(ctx context.Context, kb *entities.KnowledgeBase) error {
	if err := r.db.WithContext(ctx).Create(kb).Error; err != nil {
		return fmt.Errorf("failed to create knowledge base: %w", err)
	}
	return nil
}

// FindByID finds a knowledge base by ID
func (r *KnowledgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.KnowledgeBase, error) {
	var kb entities.KnowledgeBase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&kb).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrKnowledgeBaseNotFound
		}
		return nil, fmt.Errorf("failed to find knowledge base by ID: %w", err)
	}
	return &kb, nil
}

// FindBuiltIn returns the seeded default knowledge base, if any
func (r *KnowledgeRepository) FindBuiltIn(ctx context.Context) (*entities.KnowledgeBase, error) {
	var kb entities.KnowledgeBase
	if err := r.db.WithContext(ctx).Where("built_in = ?", true).First(&kb).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrKnowledgeBaseNotFound
		}
		return nil, fmt.Errorf("failed to find built-in knowledge base: %w", err)
	}
	return &kb, nil
}

// List returns all knowledge bases, newest first
func (r *KnowledgeRepository) List(ctx context.Context) ([]*entities.KnowledgeBase, error) {
	var kbs []*entities.KnowledgeBase
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&kbs).Error; err != nil {
		return nil, fmt.Errorf("failed to list knowledge bases: %w", err)
	}
	return kbs, nil
}

// Delete removes a knowledge base
func (r *KnowledgeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND built_in = ?", id, false).Delete(&entities.KnowledgeBase{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete knowledge base: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entities.ErrKnowledgeBaseNotFound
	}
	return nil
}
