package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/gmsas95/caretrack/internal/errors"
	"github.com/gmsas95/caretrack/internal/metrics"
)

func (s *Server) authMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return s.writeError(c, apperrors.ErrNotAuthenticated)
		}

		tokenString := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.config.Security.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return s.writeError(c, apperrors.ErrNotAuthenticated)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return s.writeError(c, apperrors.ErrNotAuthenticated)
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return s.writeError(c, apperrors.ErrNotAuthenticated)
		}

		c.Locals("user_id", sub)
		return c.Next()
	}
}

// loginRateLimit throttles login attempts across all clients. Single-user
// deployment: one global bucket is enough.
func (s *Server) loginRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.loginLimiter.Allow() {
			return c.Status(429).JSON(fiber.Map{"error": "too many login attempts"})
		}
		return c.Next()
	}
}

func (s *Server) metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		metrics.Default().RecordRequest(c.Response().StatusCode() < 400)
		metrics.Default().RecordRoute(c.Route().Path)
		return err
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
