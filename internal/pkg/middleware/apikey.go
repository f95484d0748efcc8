package middleware

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/internal/utils"
)

const (
	// APIKeyHeader carries the static operator API key
	APIKeyHeader = "X-API-Key"
)

// ValidateAPIKey middleware validates the static operator API key against the
// configured bcrypt hash. Used only on the token-issuing endpoint; everything
// else on the operator API runs on short-lived JWTs.
func ValidateAPIKey(cfg models.AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get(APIKeyHeader)
			if apiKey == "" {
				return utils.UnauthorizedResponse(c, "API key is required")
			}

			if cfg.APIKeyHash == "" {
				return utils.UnauthorizedResponse(c, "Operator API is not configured")
			}

			if err := bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(apiKey)); err != nil {
				return utils.UnauthorizedResponse(c, "Invalid API key")
			}

			return next(c)
		}
	}
}
