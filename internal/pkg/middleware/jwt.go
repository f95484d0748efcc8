package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	jwtpkg "github.com/wekesa/pesaledger/internal/pkg/jwt"
	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/internal/utils"
)

// JWTAuthMiddleware creates a middleware for JWT authentication on the
// operator API
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			if sub, ok := (*claims)["sub"]; !ok || sub != "operator" {
				return utils.UnauthorizedResponse(c, "Invalid token: missing subject claim")
			}

			c.Set("subject", "operator")

			return next(c)
		}
	}
}
