package knowledge

import "time"

// KnowledgeBaseResponse represents a knowledge base in responses. Content
// is included only on single-item reads.
type KnowledgeBaseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	BuiltIn   bool      `json:"builtIn"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
