package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// JWTProtected requires a valid HS256 Bearer token carrying a username claim
// and stores that username in c.Locals("username"). When enabled is false
// every request passes.
func JWTProtected(secret string, enabled bool, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Bearer token required",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			log.Info("rejected token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		username, _ := claims["username"].(string)
		if !ok || username == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Token has no username",
			})
		}

		c.Locals("username", username)
		return c.Next()
	}
}
