package middleware

import (
	"errors"
	"strings"

	"hrcore/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxActorKey = "actor"

// Actor is the authenticated caller resolved from the bearer token.
type Actor struct {
	TenantID string
	ActorID  uuid.UUID
	Role     string
}

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxActorKey, Actor{
			TenantID: strings.TrimSpace(claims.TenantID),
			ActorID:  claims.ActorID,
			Role:     claims.Role,
		})
		return c.Next()
	}
}

// ActorFrom returns the caller stored by the auth middleware.
func ActorFrom(c fiber.Ctx) (Actor, bool) {
	a, ok := c.Locals(CtxActorKey).(Actor)
	if !ok || a.TenantID == "" {
		return Actor{}, false
	}
	return a, true
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// websocket upgrades, so the access_token query parameter is accepted too.
func bearerToken(c fiber.Ctx) (string, bool) {
	if token, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
		return token, true
	}
	if token := strings.TrimSpace(c.Query("access_token")); token != "" {
		return token, true
	}
	return "", false
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
