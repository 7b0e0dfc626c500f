package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/meeyqueue/case-backend/internal/config"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/services"
)

const (
	RoleAdmin        = "admin"
	RoleKioskManager = "kiosk_manager"

	localRole    = "role"
	localSubject = "sub"
)

// JWTProtected verifies the HS256 bearer token and exposes its "sub" and
// "role" claims. Requests already admitted by AdminToken skip verification.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Filter:     adminTokenAccepted,
		SuccessHandler: func(c *fiber.Ctx) error {
			if token, ok := c.Locals("user").(*jwt.Token); ok {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					sub, _ := claims["sub"].(string)
					role, _ := claims["role"].(string)
					c.Locals(localSubject, sub)
					c.Locals(localRole, role)
					c.SetUserContext(services.ContextWithActor(c.UserContext(), sub))
				}
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// RequireRole admits callers whose role claim is one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminTokenAccepted(c) {
			return c.Next()
		}
		role, _ := c.Locals(localRole).(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this resource.",
		})
	}
}

// Staff admits kiosk managers and admins.
func Staff() fiber.Handler {
	return RequireRole(RoleKioskManager, RoleAdmin)
}
