package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/common"
	sessiondto "github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/session"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/presenter"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/session"
)

// Session handles training session HTTP requests
type Session struct {
	service *session.Service
	logger  *zap.Logger
}

// NewSession creates a new session handler
func NewSession(service *session.Service, logger *zap.Logger) *Session {
	return &Session{
		service: service,
		logger:  logger,
	}
}

// Create registers a new session in the created state
// POST /api/sessions
func (h *Session) Create(c echo.Context) error {
	var req sessiondto.CreateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	params := session.CreateParams{
		UserName: req.UserName,
		CaseType: req.CaseType,
		AvatarID: req.AvatarID,
		Language: req.Language,
	}
	if req.KnowledgeBaseID != nil {
		id, err := uuid.Parse(*req.KnowledgeBaseID)
		if err != nil {
			return HandleError(h.logger, c, entities.ErrInvalidRequest)
		}
		params.KnowledgeBaseID = &id
	}

	created, err := h.service.Create(c.Request().Context(), params)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.SessionResponse(created))
}

// List returns sessions, newest first
// GET /api/sessions?limit=&offset=
func (h *Session) List(c echo.Context) error {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	sessions, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, common.ListResponse{
		Data:   presenter.SessionListResponse(sessions),
		Limit:  limit,
		Offset: offset,
		Count:  len(sessions),
	})
}

// Get returns one session with transcript and report
// GET /api/sessions/:id
func (h *Session) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	found, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.SessionResponse(found))
}

// Update changes the pinned configuration of a session that has not gone live
// PATCH /api/sessions/:id
func (h *Session) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req sessiondto.UpdateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	params := session.UpdateParams{
		UserName: req.UserName,
		CaseType: req.CaseType,
		AvatarID: req.AvatarID,
		Language: req.Language,
	}
	if req.KnowledgeBaseID != nil {
		kbID, err := uuid.Parse(*req.KnowledgeBaseID)
		if err != nil {
			return HandleError(h.logger, c, entities.ErrInvalidRequest)
		}
		params.KnowledgeBaseID = &kbID
	}

	updated, err := h.service.Update(c.Request().Context(), id, params)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.SessionResponse(updated))
}

// Start brings a created session live
// POST /api/sessions/:id/start
func (h *Session) Start(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	started, err := h.service.Start(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.SessionResponse(started))
}

// End finishes a session and returns the final record. Ending an already
// finished session returns the stored record unchanged.
// POST /api/sessions/:id/end
func (h *Session) End(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ended, err := h.service.End(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.SessionResponse(ended))
}

// Report returns the scored analysis of an ended session
// GET /api/sessions/:id/report
func (h *Session) Report(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	report, err := h.service.Report(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ReportResponse(report))
}

// Delete removes a session record
// DELETE /api/sessions/:id
func (h *Session) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, common.SuccessResponse{Message: "session deleted"})
}

// Avatars returns the interviewer catalog
// GET /api/avatars
func (h *Session) Avatars(c echo.Context) error {
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.AvatarListResponse(entities.AvailableAvatars))
}
