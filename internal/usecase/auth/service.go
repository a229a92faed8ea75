package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/jwt"
)

// Service authenticates against the statically configured user list and
// issues JWTs for the API.
type Service struct {
	users  []config.StaticUser
	tokens *jwt.Manager
	logger *zap.Logger
}

// Identity is the authenticated principal carried in the token.
type Identity struct {
	Email      string `json:"email"`
	UniqueCode string `json:"uniqueCode"`
}

func NewService(users []config.StaticUser, tokens *jwt.Manager, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login checks the credential triple and returns a signed token. All three
// values must match a configured user.
func (s *Service) Login(email, password, uniqueCode string) (string, *Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var matched *config.StaticUser
	for i := range s.users {
		u := &s.users[i]
		emailOK := strings.EqualFold(u.Email, email)
		passOK := subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
		codeOK := subtle.ConstantTimeCompare([]byte(u.UniqueCode), []byte(uniqueCode)) == 1
		if emailOK && passOK && codeOK {
			matched = u
			break
		}
	}

	if matched == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Login rejected", zap.String("email", email))
		}
		return "", nil, entities.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(matched.Email, matched.UniqueCode)
	if err != nil {
		return "", nil, err
	}

	if s.logger != nil {
		s.logger.Info("🔐 User logged in",
			zap.String("email", matched.Email),
			zap.String("unique_code", matched.UniqueCode))
	}
	return token, &Identity{Email: matched.Email, UniqueCode: matched.UniqueCode}, nil
}

// Verify validates a bearer token and returns the identity it carries.
func (s *Service) Verify(token string) (*Identity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}
	return &Identity{Email: claims.Email, UniqueCode: claims.UniqueCode}, nil
}

// TokenTTL exposes the configured token lifetime for response metadata.
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.GetExpiry()
}
