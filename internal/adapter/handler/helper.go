package handler

import (
	stdErrors "errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/errors"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Info    string `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    "OK",
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging. Domain sentinels are
// translated to their HTTP shape first; anything unrecognized is a 500.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = mapDomainError(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Info:    info,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// mapDomainError assigns HTTP semantics to the domain sentinels.
func mapDomainError(err error) errors.AppError {
	switch {
	case stdErrors.Is(err, entities.ErrSessionNotFound):
		return errors.ErrNotFound("session")
	case stdErrors.Is(err, entities.ErrKnowledgeBaseNotFound):
		return errors.ErrNotFound("knowledge base")
	case stdErrors.Is(err, entities.ErrSessionNotCreated):
		return errors.ErrSessionInvalidState("", "", string(entities.SessionStatusCreated))
	case stdErrors.Is(err, entities.ErrSessionTerminal):
		return errors.ErrSessionInvalidState("", "ended", "active")
	case stdErrors.Is(err, entities.ErrSessionNotLive):
		return errors.ErrSessionNotLive("")
	case stdErrors.Is(err, entities.ErrReportNotReady):
		return errors.ErrNotFound("analysis report")
	case stdErrors.Is(err, entities.ErrAlreadyRecording):
		return errors.ErrAlreadyRecording("")
	case stdErrors.Is(err, entities.ErrTurnInProgress):
		return errors.ErrDialogueBusy("")
	case stdErrors.Is(err, entities.ErrContentTooLong),
		stdErrors.Is(err, entities.ErrContentNotText),
		stdErrors.Is(err, entities.ErrUnsupportedFileType):
		return errors.ErrKnowledgeInvalidContent(err.Error())
	case stdErrors.Is(err, entities.ErrInvalidCredentials):
		return errors.ErrInvalidCredentials()
	case stdErrors.Is(err, entities.ErrInvalidToken):
		return errors.ErrInvalidToken()
	case stdErrors.Is(err, entities.ErrInvalidRequest):
		return errors.ErrInvalidArgument(err.Error())
	default:
		return errors.ErrInternal(err)
	}
}

// bindAndValidate decodes the body and runs struct validation.
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(v); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}

// pathUUID parses a uuid path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid " + name)
	}
	return id, nil
}

// queryInt reads an integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
