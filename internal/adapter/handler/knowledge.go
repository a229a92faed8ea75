package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/common"
	kbdto "github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/knowledge"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/presenter"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/knowledge"
)

// Knowledge handles knowledge base HTTP requests
type Knowledge struct {
	service *knowledge.Service
	logger  *zap.Logger
}

// NewKnowledge creates a new knowledge base handler
func NewKnowledge(service *knowledge.Service, logger *zap.Logger) *Knowledge {
	return &Knowledge{
		service: service,
		logger:  logger,
	}
}

// Create accepts case material either as a JSON body or as a multipart
// .txt upload under the "file" field.
// POST /api/knowledge
func (h *Knowledge) Create(c echo.Context) error {
	contentType := c.Request().Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.createFromUpload(c)
	}

	var req kbdto.CreateKnowledgeBaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	created, err := h.service.Create(c.Request().Context(), req.Name, req.Content, "")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.KnowledgeBaseResponse(created, false))
}

func (h *Knowledge) createFromUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, entities.ErrInvalidRequest)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	name := c.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(fileHeader.Filename, ".txt")
	}

	created, err := h.service.Create(c.Request().Context(), name, string(content), fileHeader.Filename)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.KnowledgeBaseResponse(created, false))
}

// List returns all knowledge bases without content bodies
// GET /api/knowledge
func (h *Knowledge) List(c echo.Context) error {
	kbs, err := h.service.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.KnowledgeBaseListResponse(kbs))
}

// Get returns one knowledge base with its content
// GET /api/knowledge/:id
func (h *Knowledge) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	kb, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.KnowledgeBaseResponse(kb, true))
}

// Delete removes a knowledge base. Built-in material cannot be deleted.
// DELETE /api/knowledge/:id
func (h *Knowledge) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, common.SuccessResponse{Message: "knowledge base deleted"})
}
