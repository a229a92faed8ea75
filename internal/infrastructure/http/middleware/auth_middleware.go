package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/auth"
)

// identityContextKey is the echo context key for the authenticated identity
const identityContextKey = "identity"

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets the identity into the request context.
func EchoAuth(service *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			identity, err := service.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c echo.Context) (*auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(*auth.Identity)
	return identity, ok
}

// extractToken reads the token from the Authorization header, a cookie or,
// for websocket upgrades where headers are awkward, the query string.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return c.QueryParam("token")
}
