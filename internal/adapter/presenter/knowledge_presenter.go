package presenter

import (
	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/knowledge"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// KnowledgeBaseResponse maps a knowledge base entity to its API shape.
func KnowledgeBaseResponse(kb *entities.KnowledgeBase, includeContent bool) *knowledge.KnowledgeBaseResponse {
	resp := &knowledge.KnowledgeBaseResponse{
		ID:        kb.ID.String(),
		Name:      kb.Name,
		FileName:  kb.FileName,
		BuiltIn:   kb.BuiltIn,
		Size:      len(kb.Content),
		CreatedAt: kb.CreatedAt,
	}
	if includeContent {
		resp.Content = kb.Content
	}
	return resp
}

// KnowledgeBaseListResponse maps a listing without content bodies.
func KnowledgeBaseListResponse(kbs []*entities.KnowledgeBase) []*knowledge.KnowledgeBaseResponse {
	out := make([]*knowledge.KnowledgeBaseResponse, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, KnowledgeBaseResponse(kb, false))
	}
	return out
}
