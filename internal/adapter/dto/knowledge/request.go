package knowledge

// CreateKnowledgeBaseRequest represents the JSON path for uploading case
// material. File uploads go through the multipart form instead.
type CreateKnowledgeBaseRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"required"`
}
