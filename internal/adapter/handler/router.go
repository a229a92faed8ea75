package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/http/middleware"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/auth"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg       *config.Config
	auth      *Auth
	session   *Session
	knowledge *Knowledge
	live      *Live

	authService *auth.Service
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, authHandler *Auth, sessionHandler *Session, knowledgeHandler *Knowledge, liveHandler *Live, authService *auth.Service) *Router {
	return &Router{
		cfg:         cfg,
		auth:        authHandler,
		session:     sessionHandler,
		knowledge:   knowledgeHandler,
		live:        liveHandler,
		authService: authService,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	api := e.Group("/api")
	requireAuth := middleware.EchoAuth(rt.authService)

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.POST("/login", rt.auth.Login)
	authGroup.GET("/me", rt.auth.Me, requireAuth)

	// Interviewer catalog
	api.GET("/avatars", rt.session.Avatars, requireAuth)

	// Training sessions
	sessions := api.Group("/sessions", requireAuth)
	sessions.POST("", rt.session.Create)
	sessions.GET("", rt.session.List)
	sessions.GET("/:id", rt.session.Get)
	sessions.PATCH("/:id", rt.session.Update)
	sessions.POST("/:id/start", rt.session.Start)
	sessions.POST("/:id/end", rt.session.End)
	sessions.GET("/:id/report", rt.session.Report)
	sessions.DELETE("/:id", rt.session.Delete)

	// Knowledge bases
	kb := api.Group("/knowledge", requireAuth)
	kb.POST("", rt.knowledge.Create)
	kb.GET("", rt.knowledge.List)
	kb.GET("/:id", rt.knowledge.Get)
	kb.DELETE("/:id", rt.knowledge.Delete)

	// Live channel: the token also rides the query string because browser
	// websocket clients cannot set headers
	api.GET("/live/:id/ws", rt.live.Attach, requireAuth)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
