package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/errors"
	authdto "github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/auth"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/http/middleware"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	service *auth.Service
	logger  *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(service *auth.Service, logger *zap.Logger) *Auth {
	return &Auth{
		service: service,
		logger:  logger,
	}
}

// Login exchanges the credential triple for a bearer token
// POST /api/auth/login
func (h *Auth) Login(c echo.Context) error {
	var req authdto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	token, identity, err := h.service.Login(req.Email, req.Password, req.UniqueCode)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := authdto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(h.service.TokenTTL().Seconds()),
		TokenType:   "Bearer",
		User: &authdto.UserResponse{
			Email:      identity.Email,
			UniqueCode: identity.UniqueCode,
		},
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Me returns the identity carried by the presented token
// GET /api/auth/me
func (h *Auth) Me(c echo.Context) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, http.StatusOK, authdto.UserResponse{
		Email:      identity.Email,
		UniqueCode: identity.UniqueCode,
	})
}
