package middleware

import (
	"errors"
	"strings"

	"loandesk/internal/config"
	"loandesk/internal/pkg/jwt"
	"loandesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the Bearer access token and stores the
// authenticated identity in the request locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return response.Unauthorized(c, "Missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return response.Unauthorized(c, "Invalid authorization header format")
		}

		claims, err := jwt.ValidateAccessToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware allows the request through only when the authenticated
// user's role is one of the given roles. Must run after AuthMiddleware.
func RoleMiddleware(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return response.Forbidden(c, "You do not have permission to access this resource")
	}
}

// ManagerOnly restricts an endpoint to managers.
func ManagerOnly() fiber.Handler {
	return RoleMiddleware("MANAGER")
}

// ManagerOrAuditor restricts an endpoint to managers and auditors.
func ManagerOrAuditor() fiber.Handler {
	return RoleMiddleware("MANAGER", "AUDITOR")
}
