package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// KnowledgeRepository defines the interface for knowledge base data access
type KnowledgeRepository interface {
	// Create creates a knowledge base
	Create(ctx context.Context, kb *entities.KnowledgeBase) error

	// FindByID finds a knowledge base by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.KnowledgeBase, error)

	// FindBuiltIn returns the seeded default knowledge base, if any
	FindBuiltIn(ctx context.Context) (*entities.KnowledgeBase, error)

	// List returns all knowledge bases, newest first
	List(ctx context.Context) ([]*entities.KnowledgeBase, error)

	// Delete removes a knowledge base
	Delete(ctx context.Context, id uuid.UUID) error
}
