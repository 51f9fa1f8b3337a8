package middleware

import (
	"context"
	"errors"
	"strings"

	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// ActorResolver turns an access token into the current actor
type ActorResolver interface {
	ResolveActor(ctx context.Context, accessToken string) (*domain.Actor, error)
}

// AuthMiddleware requires a valid access token and an active directory profile
func AuthMiddleware(resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		actor, err := resolver.ResolveActor(c.UserContext(), accessToken)
		if err != nil {
			return denyResolve(c, err)
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// OptionalAuth sets the actor when a usable token is present and never rejects
func OptionalAuth(resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := extractToken(c); accessToken != "" {
			if actor, err := resolver.ResolveActor(c.UserContext(), accessToken); err == nil {
				c.Locals(actorKey, actor)
			}
		}
		return c.Next()
	}
}

// Require rejects requests whose actor may not perform action
func Require(action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.Authorize(CurrentActor(c), action, ""); err != nil {
			if errors.Is(err, access.ErrUnauthorized) {
				return response.Unauthorized(c, "Unauthorized")
			}
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// CurrentActor returns the actor set by AuthMiddleware, or nil
func CurrentActor(c *fiber.Ctx) *domain.Actor {
	actor, _ := c.Locals(actorKey).(*domain.Actor)
	return actor
}

// extractToken reads the access token from the cookie, then the Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// denyResolve maps resolver failures; anything unexpected is denied
func denyResolve(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return response.Unauthorized(c, "Access token expired")
	case errors.Is(err, services.ErrInvalidToken):
		return response.Unauthorized(c, "Invalid access token")
	case errors.Is(err, services.ErrAccountDeactivated):
		return response.Unauthorized(c, services.ErrAccountDeactivated.Error())
	case errors.Is(err, services.ErrProfileNotFound), errors.Is(err, services.ErrDirectoryUnavailable):
		return response.Forbidden(c, services.ErrDirectoryUnavailable.Error())
	default:
		logger.Error("Actor resolution failed", err)
		return response.Forbidden(c, services.ErrDirectoryUnavailable.Error())
	}
}
